package llmInteraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence with prose", "Here you go:\n```\n{\"a\":1}\n```\nEnjoy!", `{"a":1}`},
		{"think block", "<think>\nlet me see [1]\n</think>\n[2]", `[2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONResponse(tt.in))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	arr, ok := ExtractJSONArray("Sure! [ {\"name\":\"A\"}, {\"name\":\"B\"} ] hope that helps")
	require.True(t, ok)
	assert.Equal(t, `[ {"name":"A"}, {"name":"B"} ]`, arr)

	_, ok = ExtractJSONArray("I could not find any places.")
	assert.False(t, ok)

	_, ok = ExtractJSONArray("] backwards [")
	assert.False(t, ok)

	obj, ok := ExtractJSONObject("<think>{\"x\":0}</think>result: {\"days\": []}")
	require.True(t, ok)
	assert.Equal(t, `{"days": []}`, obj)
}

func TestDecodeArray(t *testing.T) {
	items, err := DecodeArray(`[{"a":1}, 2, "x"]`)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = DecodeArray(`[{"a":1},`)
	assert.Error(t, err)
}

func TestLooseTypes(t *testing.T) {
	var rec struct {
		Name  LooseString  `json:"name"`
		Score LooseNumber  `json:"score"`
		Other LooseNumber  `json:"other"`
		Tags  LooseStrings `json:"tags"`
		Day   LooseNumber  `json:"day"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"name": 42, "score": "0.75", "other": "n/a", "tags": "a, b,,c", "day": 2.0}`), &rec))
	assert.Equal(t, "42", rec.Name.Trim())
	assert.True(t, rec.Score.Set)
	assert.InDelta(t, 0.75, rec.Score.Value, 1e-9)
	assert.False(t, rec.Other.Set)
	assert.Equal(t, LooseStrings{"a", "b", "c"}, rec.Tags)
	assert.Equal(t, 2, rec.Day.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"name": null, "score": null, "tags": ["x", 1, null, " "]}`), &rec))
	assert.Equal(t, "", rec.Name.Trim())
	assert.False(t, rec.Score.Set)
	assert.Equal(t, LooseStrings{"x", "1"}, rec.Tags)
}
