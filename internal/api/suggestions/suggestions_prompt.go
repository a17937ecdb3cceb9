package suggestions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const suggestionsSystemPrompt = `You are a knowledgeable travel recommendation AI. Your job is to suggest places a traveler would enjoy based on places they have already saved for a city.

IMPORTANT GUIDELINES:
1. Suggest REAL places that exist, never generic placeholders.
2. Each suggestion must be a specific named establishment or location.
3. Analyze the saved places to understand the user's preferences (budget, cuisine, activities).
4. Recommend places that complement their list: similar vibe, different venues. Never repeat a saved place.
5. Include a mix of categories unless the user clearly prefers one type.
6. "whyRecommended" must reference their saved places and explain the connection.

Categories (use exactly these lowercase values):
- food: restaurants, cafes, bakeries, any eating establishment
- nightlife: bars, clubs, pubs, lounges
- attractions: museums, landmarks, monuments, tourist sites, experiences
- lodging: hotels, hostels, B&Bs, accommodations
- shopping: stores, malls, markets, boutiques
- outdoors: parks, beaches, hiking trails, nature spots
- general: anything that doesn't fit above

Price ranges:
- $: Budget-friendly
- $$: Moderate
- $$$: Upscale
- $$$$: Luxury

Tags should be 2-3 short descriptive phrases like "local favorite", "hidden gem", "romantic", "casual", "historic".

Respond ONLY with a valid JSON array, no markdown, no explanation:
[
  {
    "name": "Actual Place Name",
    "category": "food",
    "description": "Brief 1-2 sentence description of what makes this place special",
    "whyRecommended": "Explanation connecting to their saved places",
    "estimatedPriceRange": "$$",
    "tags": ["local favorite", "casual"]
  }
]`

type categoryCount struct {
	category string
	count    int
}

// categoryProfile counts saved places per category, most frequent first.
// Ties keep first appearance order.
func categoryProfile(places []types.SavedPlaceContext) []categoryCount {
	index := map[string]int{}
	var counts []categoryCount
	for _, p := range places {
		cat := strings.ToLower(strings.TrimSpace(string(p.Category)))
		if cat == "" {
			cat = string(types.CategoryGeneral)
		}
		if i, ok := index[cat]; ok {
			counts[i].count++
			continue
		}
		index[cat] = len(counts)
		counts = append(counts, categoryCount{category: cat, count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	return counts
}

func topCategories(places []types.SavedPlaceContext, n int) string {
	counts := categoryProfile(places)
	if len(counts) > n {
		counts = counts[:n]
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.category, c.count)
	}
	return strings.Join(parts, ", ")
}

func buildUserPrompt(req types.SuggestionRequest, maxSuggestions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Location: %s, %s\n\n", req.CityName, req.CountryName)
	fmt.Fprintf(&b, "The user has saved these %d places:\n", len(req.SavedPlaces))
	for _, p := range req.SavedPlaces {
		fmt.Fprintf(&b, "- %s (%s)", p.Name, p.Category)
		if p.Description != "" {
			fmt.Fprintf(&b, ": %s", p.Description)
		}
		if p.Visited {
			b.WriteString(" [visited]")
		}
		b.WriteString("\n")
	}

	top := topCategories(req.SavedPlaces, 3)
	if top == "" {
		top = "varied"
	}
	fmt.Fprintf(&b, "\nTheir top interests appear to be: %s\n\n", top)
	fmt.Fprintf(&b, "Please suggest %d additional places they would likely enjoy in %s.", maxSuggestions, req.CityName)

	if len(req.ExcludeCategories) > 0 {
		ex := make([]string, len(req.ExcludeCategories))
		for i, c := range req.ExcludeCategories {
			ex[i] = string(c)
		}
		fmt.Fprintf(&b, "\n\nDo NOT suggest places in these categories: %s", strings.Join(ex, ", "))
	}
	b.WriteString("\n\nFocus on real, well-known establishments that match their apparent preferences. Each suggestion should have a clear connection to their existing saved places.")
	return b.String()
}
