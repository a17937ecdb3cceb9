package types

import (
	"strings"
	"time"
)

type PriceRange string

const (
	PriceBudget    PriceRange = "$"
	PriceModerate  PriceRange = "$$"
	PriceExpensive PriceRange = "$$$"
	PriceLuxury    PriceRange = "$$$$"
)

// ParsePriceRange accepts only the four dollar tiers.
func ParsePriceRange(s string) (PriceRange, bool) {
	switch p := PriceRange(strings.TrimSpace(s)); p {
	case PriceBudget, PriceModerate, PriceExpensive, PriceLuxury:
		return p, true
	}
	return "", false
}

type Suggestion struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	Description    string     `json:"description"`
	WhyRecommended string     `json:"whyRecommended"`
	PriceRange     PriceRange `json:"priceRange,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

type SuggestionRequest struct {
	CityName          string              `json:"cityName"`
	CountryName       string              `json:"countryName"`
	SavedPlaces       []SavedPlaceContext `json:"savedPlaces"`
	MaxSuggestions    int                 `json:"maxSuggestions,omitempty"`
	ExcludeCategories []Category          `json:"excludeCategories,omitempty"`
}

type SuggestionResult struct {
	Suggestions   []Suggestion `json:"suggestions"`
	CityName      string       `json:"cityName"`
	CountryName   string       `json:"countryName"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	BasedOnPlaces []string     `json:"basedOnPlaces"`
	ModelID       string       `json:"modelId,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type PlaceDescriptionRequest struct {
	PlaceName string   `json:"placeName"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Category  Category `json:"category,omitempty"`
}

type PlaceDescriptionResult struct {
	Description      string   `json:"description"`
	GroundingSources []string `json:"groundingSources,omitempty"`
	ModelID          string   `json:"modelId,omitempty"`
	Cached           bool     `json:"cached"`
	Error            string   `json:"error,omitempty"`
}
