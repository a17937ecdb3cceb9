package llmInteraction

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanJSONResponse strips reasoning blocks and markdown fences from a model
// answer. It does not try to locate the JSON value itself.
func CleanJSONResponse(response string) string {
	response = thinkBlock.ReplaceAllString(response, "")
	response = strings.TrimSpace(response)

	if i := strings.Index(response, "```"); i >= 0 {
		rest := response[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		response = rest
	}
	return strings.TrimSpace(response)
}

// ExtractJSONArray returns the text between the first '[' and the last ']'.
func ExtractJSONArray(response string) (string, bool) {
	return span(CleanJSONResponse(response), '[', ']')
}

// ExtractJSONObject returns the text between the first '{' and the last '}'.
func ExtractJSONObject(response string) (string, bool) {
	return span(CleanJSONResponse(response), '{', '}')
}

func span(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// DecodeArray splits a JSON array into raw elements so that one bad record
// does not sink the rest.
func DecodeArray(raw string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LooseString accepts strings, numbers and booleans; null stays empty.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*s = ""
		return nil
	}
	*s = LooseString(b)
	return nil
}

func (s LooseString) Trim() string { return strings.TrimSpace(string(s)) }

// LooseNumber accepts a number or a numeric string. Set is false when the
// field was absent, null or not numeric.
type LooseNumber struct {
	Value float64
	Set   bool
}

func (n *LooseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = LooseNumber{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = LooseNumber{Value: v, Set: true}
	return nil
}

func (n LooseNumber) Int() int { return int(math.Round(n.Value)) }

// LooseStrings accepts an array of loose strings or a single comma separated string.
type LooseStrings []string

func (l *LooseStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = nil
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		var items []LooseString
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		for _, it := range items {
			if v := it.Trim(); v != "" {
				*l = append(*l, v)
			}
		}
		return nil
	}
	var single LooseString
	if err := json.Unmarshal(b, &single); err != nil {
		return nil
	}
	for _, part := range strings.Split(single.Trim(), ",") {
		if v := strings.TrimSpace(part); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}
