package description

import (
	"fmt"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

var categoryInstructions = map[types.Category]string{
	types.CategoryFood:        "If the category is Food, mention a specific dish or cuisine worth trying.",
	types.CategoryNightlife:   "If the category is Nightlife, mention the vibe, atmosphere, or signature drinks.",
	types.CategoryAttractions: "If the category is Attraction, mention history, architecture, or cultural significance.",
	types.CategoryLodging:     "If the category is Lodging, mention unique amenities or what makes it stand out.",
	types.CategoryShopping:    "If the category is Shopping, mention what items or brands to look for.",
	types.CategoryOutdoors:    "If the category is Outdoors, mention the best time of day or scenic highlights.",
	types.CategoryGeneral:     "Provide a helpful description of what makes this place worth visiting.",
}

func systemPrompt(category types.Category) string {
	instruction, ok := categoryInstructions[category]
	if !ok {
		instruction = categoryInstructions[types.CategoryGeneral]
	}
	return fmt.Sprintf(`You are a knowledgeable travel guide assistant. Write exactly 2 sentences about a place that a traveler would find useful.

GUIDELINES:
1. %s
2. Be specific and informative. Avoid generic praise like "great", "amazing" or "wonderful"
3. Include practical tips when relevant (best time to visit, what to order)
4. TRUST the user's City/Country input and only state details you know to be accurate for that location
5. If you do not know this specific place, answer "A local spot worth exploring."

Respond with ONLY the description, no quotes or explanation.`, instruction)
}

func userPrompt(req types.PlaceDescriptionRequest, category types.Category) string {
	return fmt.Sprintf("Write a brief description for: %s\nLOCATION: %s, %s\nCategory: %s", req.PlaceName, req.City, req.Country, category)
}
