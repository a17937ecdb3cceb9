package suggestions

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	maxTags               = 3
	defaultDescription    = "A local favorite worth checking out."
	defaultWhyRecommended = "Recommended based on your saved places"
)

type rawSuggestion struct {
	Name                json.RawMessage             `json:"name"`
	Category            llmInteraction.LooseString  `json:"category"`
	Description         llmInteraction.LooseString  `json:"description"`
	WhyRecommended      llmInteraction.LooseString  `json:"whyRecommended"`
	EstimatedPriceRange llmInteraction.LooseString  `json:"estimatedPriceRange"`
	PriceRange          llmInteraction.LooseString  `json:"priceRange"`
	Tags                llmInteraction.LooseStrings `json:"tags"`
}

func newSuggestionID() string {
	return "ai-" + uuid.NewString()
}

// parseSuggestions validates the model answer. Ids from the model are never
// used; excluded categories and names already saved are dropped.
func parseSuggestions(content string, maxSuggestions int, exclude []types.Category, saved []types.SavedPlaceContext) ([]types.Suggestion, error) {
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

	excluded := make(map[types.Category]struct{}, len(exclude))
	for _, c := range exclude {
		excluded[types.ParseCategory(string(c))] = struct{}{}
	}
	seen := make(map[string]struct{}, len(saved)+len(items))
	for _, p := range saved {
		seen[strings.ToLower(strings.TrimSpace(p.Name))] = struct{}{}
	}

	out := make([]types.Suggestion, 0, maxSuggestions)
	for _, item := range items {
		if len(out) >= maxSuggestions {
			break
		}
		var rs rawSuggestion
		if err := json.Unmarshal(item, &rs); err != nil {
			continue
		}
		var name string
		if err := json.Unmarshal(rs.Name, &name); err != nil {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if _, dup := seen[lower]; dup {
			continue
		}
		category := types.ParseCategory(rs.Category.Trim())
		if _, skip := excluded[category]; skip {
			continue
		}
		seen[lower] = struct{}{}

		s := types.Suggestion{
			ID:             newSuggestionID(),
			Name:           name,
			Category:       category,
			Description:    rs.Description.Trim(),
			WhyRecommended: rs.WhyRecommended.Trim(),
		}
		if s.Description == "" {
			s.Description = defaultDescription
		}
		if s.WhyRecommended == "" {
			s.WhyRecommended = defaultWhyRecommended
		}
		price := rs.EstimatedPriceRange.Trim()
		if price == "" {
			price = rs.PriceRange.Trim()
		}
		if pr, ok := types.ParsePriceRange(price); ok {
			s.PriceRange = pr
		}
		if len(rs.Tags) > 0 {
			tags := []string(rs.Tags)
			if len(tags) > maxTags {
				tags = tags[:maxTags]
			}
			s.Tags = append([]string(nil), tags...)
		}
		out = append(out, s)
	}
	return out, nil
}
