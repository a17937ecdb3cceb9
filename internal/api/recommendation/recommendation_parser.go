package recommendation

import (
	"encoding/json"
	"math"
	"strings"

	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const defaultConfidence = 0.8

type rawLocation struct {
	City    llmInteraction.LooseString `json:"city"`
	Country llmInteraction.LooseString `json:"country"`
}

type rawSource struct {
	Type         llmInteraction.LooseString `json:"type"`
	Name         llmInteraction.LooseString `json:"name"`
	DisplayName  llmInteraction.LooseString `json:"displayName"`
	Relationship llmInteraction.LooseString `json:"relationship"`
	URL          llmInteraction.LooseString `json:"url"`
}

type rawPlace struct {
	Name        json.RawMessage            `json:"name"`
	Category    llmInteraction.LooseString `json:"category"`
	Confidence  llmInteraction.LooseNumber `json:"confidence"`
	Tip         llmInteraction.LooseString `json:"tip"`
	Description llmInteraction.LooseString `json:"description"`
	City        llmInteraction.LooseString `json:"city"`
	Country     llmInteraction.LooseString `json:"country"`
	Location    *rawLocation               `json:"location"`
	Source      *rawSource                 `json:"source"`
}

// name only accepts a JSON string; numbers or objects are not names.
func (p rawPlace) name() string {
	var s string
	if err := json.Unmarshal(p.Name, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// parsePlaces turns a model answer into validated candidates. The error is
// non-nil only when no JSON array could be read at all.
func parsePlaces(content, originalText string) ([]types.CandidatePlace, error) {
	if strings.TrimSpace(content) == "" {
		return nil, types.ErrEmptyAnswer
	}
	raw, ok := llmInteraction.ExtractJSONArray(content)
	if !ok {
		return nil, types.ErrMalformedAnswer
	}
	items, err := llmInteraction.DecodeArray(raw)
	if err != nil {
		return nil, types.ErrMalformedAnswer
	}

	lines := strings.Split(originalText, "\n")
	places := make([]types.CandidatePlace, 0, len(items))
	for _, item := range items {
		var rp rawPlace
		if err := json.Unmarshal(item, &rp); err != nil {
			continue
		}
		name := rp.name()
		if name == "" {
			continue
		}
		places = append(places, normalizePlace(rp, name, snippetAt(lines, len(places), originalText)))
	}
	return places, nil
}

func normalizePlace(rp rawPlace, name, snippet string) types.CandidatePlace {
	place := types.CandidatePlace{
		Name:          name,
		Category:      types.ParseCategory(rp.Category.Trim()),
		Confidence:    clampConfidence(rp.Confidence),
		OriginSnippet: snippet,
		City:          rp.City.Trim(),
		Country:       rp.Country.Trim(),
	}
	if tip := rp.Tip.Trim(); tip != "" {
		place.Description = tip
	} else {
		place.Description = rp.Description.Trim()
	}
	if rp.Location != nil {
		if place.City == "" {
			place.City = rp.Location.City.Trim()
		}
		if place.Country == "" {
			place.Country = rp.Location.Country.Trim()
		}
	}
	if rp.Source != nil && rp.Source.Type.Trim() != "" {
		st := types.ParseSourceType(rp.Source.Type.Trim())
		display := rp.Source.Name.Trim()
		if display == "" {
			display = rp.Source.DisplayName.Trim()
		}
		if display == "" {
			display = st.DisplayName()
		}
		place.Source = &types.SourceAttribution{
			Type:         st,
			DisplayName:  display,
			Relationship: rp.Source.Relationship.Trim(),
			URL:          rp.Source.URL.Trim(),
		}
	}
	return place
}

func clampConfidence(n llmInteraction.LooseNumber) float64 {
	if !n.Set {
		return defaultConfidence
	}
	return math.Max(0, math.Min(1, n.Value))
}

// snippetAt is the input line at the record's position, or the whole input
// when there are fewer lines than records.
func snippetAt(lines []string, index int, originalText string) string {
	if index < len(lines) {
		if line := strings.TrimSpace(lines[index]); line != "" {
			return line
		}
	}
	return originalText
}
