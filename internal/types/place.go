package types

import "strings"

// Category is the closed set of place categories understood by the app.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryNightlife   Category = "nightlife"
	CategoryAttractions Category = "attractions"
	CategoryLodging     Category = "lodging"
	CategoryShopping    Category = "shopping"
	CategoryOutdoors    Category = "outdoors"
	CategoryGeneral     Category = "general"
)

var categories = map[Category]struct{}{
	CategoryFood:        {},
	CategoryNightlife:   {},
	CategoryAttractions: {},
	CategoryLodging:     {},
	CategoryShopping:    {},
	CategoryOutdoors:    {},
	CategoryGeneral:     {},
}

// AllCategories lists the categories in prompt order.
var AllCategories = []Category{
	CategoryFood,
	CategoryNightlife,
	CategoryAttractions,
	CategoryLodging,
	CategoryShopping,
	CategoryOutdoors,
	CategoryGeneral,
}

// ParseCategory coerces free text to a Category. Unknown values become general.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; ok {
		return c
	}
	return CategoryGeneral
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// SourceType says where a recommendation came from.
type SourceType string

const (
	SourceFriend    SourceType = "friend"
	SourceInstagram SourceType = "instagram"
	SourceBlog      SourceType = "blog"
	SourceEmail     SourceType = "email"
	SourceText      SourceType = "text"
	SourceTikTok    SourceType = "tiktok"
	SourceYouTube   SourceType = "youtube"
	SourceArticle   SourceType = "article"
	SourceAI        SourceType = "ai"
	SourceOther     SourceType = "other"
)

var sourceTypes = map[SourceType]struct{}{
	SourceFriend:    {},
	SourceInstagram: {},
	SourceBlog:      {},
	SourceEmail:     {},
	SourceText:      {},
	SourceTikTok:    {},
	SourceYouTube:   {},
	SourceArticle:   {},
	SourceAI:        {},
	SourceOther:     {},
}

// ParseSourceType coerces free text to a SourceType. Unknown values become other.
func ParseSourceType(s string) SourceType {
	t := SourceType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sourceTypes[t]; ok {
		return t
	}
	return SourceOther
}

func (t SourceType) Valid() bool {
	_, ok := sourceTypes[t]
	return ok
}

// DisplayName is the capitalized type name, used when the model gave no name.
func (t SourceType) DisplayName() string {
	switch t {
	case SourceTikTok:
		return "TikTok"
	case SourceYouTube:
		return "YouTube"
	case SourceAI:
		return "AI"
	}
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type SourceAttribution struct {
	Type         SourceType `json:"type"`
	DisplayName  string     `json:"displayName"`
	Relationship string     `json:"relationship,omitempty"`
	URL          string     `json:"url,omitempty"`
}

// CandidatePlace is a place proposed by the extractor, not yet saved.
type CandidatePlace struct {
	Name          string             `json:"name"`
	Category      Category           `json:"category"`
	Confidence    float64            `json:"confidence"`
	OriginSnippet string             `json:"originSnippet"`
	Description   string             `json:"description,omitempty"`
	City          string             `json:"city,omitempty"`
	Country       string             `json:"country,omitempty"`
	Source        *SourceAttribution `json:"source,omitempty"`
}

// ExtractionContext carries what the caller already knows about the text.
type ExtractionContext struct {
	City       string     `json:"city,omitempty"`
	Country    string     `json:"country,omitempty"`
	SourceType SourceType `json:"sourceType,omitempty"`
}

// HasLocation reports whether both city and country are known.
func (c *ExtractionContext) HasLocation() bool {
	return c != nil && strings.TrimSpace(c.City) != "" && strings.TrimSpace(c.Country) != ""
}

type ExtractRequest struct {
	Text    string             `json:"text"`
	Context *ExtractionContext `json:"context,omitempty"`
}

type ExtractionResult struct {
	Places           []CandidatePlace `json:"places"`
	Error            string           `json:"error,omitempty"`
	ModelID          string           `json:"modelId,omitempty"`
	GroundingSources []string         `json:"groundingSources,omitempty"`
}

// SavedPlaceContext is the slice of a saved place the generators need.
type SavedPlaceContext struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Visited     bool     `json:"visited"`
}
