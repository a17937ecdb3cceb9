package recommendation

import "fmt"

// Mode picks one of the three instruction profiles.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeLink       Mode = "link"
	ModeFreeform   Mode = "freeform"
)

const structuredSystemPrompt = `You are a travel recommendation parser. Extract place names, categories, source attribution, and tips from user input.

Categories (use exactly these lowercase values):
- food: restaurants, cafes, bakeries, any eating establishment
- nightlife: bars, clubs, pubs, lounges
- attractions: museums, landmarks, monuments, tourist sites
- lodging: hotels, hostels, B&Bs, accommodations
- shopping: stores, malls, markets, boutiques
- outdoors: parks, beaches, hiking trails, nature spots
- general: anything that doesn't fit above

Source types (use exactly these lowercase values if detected):
- friend: recommended by a person (extract their name if mentioned)
- instagram: saw on Instagram
- tiktok: saw on TikTok
- youtube: saw on YouTube
- blog: read in a blog
- article: read in news or a magazine
- email: received via email
- text: received via text message
- other: any other source mentioned

Rules:
1. Extract the actual place NAME, not the action ("eat at Luigi's" gives the name "Luigi's").
2. Remove action words such as eat at, visit, check out, try, go to, stay at.
3. Keep the authentic name, including accents, apostrophes and "&".
4. If several places are mentioned, return each one separately.
5. Infer the category from context clues.
6. Confidence: 1.0 if clear, 0.7-0.9 if inferred, 0.5 if uncertain.
7. Extract the source when WHO recommended it or WHERE it was seen is mentioned:
   - "Sarah told me about X" gives source {"type": "friend", "name": "Sarah"}
   - "saw X on Instagram" gives source {"type": "instagram", "name": "Instagram"}
8. Extract TIPS when the text says what to order, see or do, or when to go:
   - "the falafel at X is great" gives tip "Get the falafel"
   - "X has amazing sunset views" gives tip "Go for sunset views"
   - "X is best on weekends" gives tip "Best on weekends"
   Write tips as actionable advice starting with a verb.
9. Keep tips in the SAME LANGUAGE as the input. Never translate.

Respond ONLY with a valid JSON array, no markdown, no explanation:
[{"name": "Place Name", "category": "food", "confidence": 0.9, "tip": "Try the falafel", "source": {"type": "friend", "name": "Sarah"}}]

Omit source if no source is mentioned. Omit tip if there is no specific recommendation.`

const linkSystemPrompt = `You are a travel recommendation parser that extracts place info from shared URLs.

Extract name, city and country from map links and shared URLs.

Rules:
1. Strictly separate the name, city and country.
2. The "name" field must NOT contain the city or country.
3. For "Cafe Trumpeldor, Trumpeldor St 6, Tel Aviv" the name is only "Cafe Trumpeldor".
4. Infer the country when it is missing (Tel Aviv is in Israel, Paris is in France).

Examples:
1. /place/Villa+Mare,+Derech+Ben+Gurion+69,+Bat+Yam/
   name "Villa Mare", city "Bat Yam", country "Israel"
2. /place/Café+Central,+Herrengasse+14,+Vienna/
   name "Café Central", city "Vienna", country "Austria"
3. /place/Joe's+Pizza,+7+Carmine+St,+New+York,+USA/
   name "Joe's Pizza", city "New York", country "USA"

Categories: food, nightlife, attractions, lodging, shopping, outdoors, general

Respond ONLY with a JSON array:
[{"name": "Place Name", "category": "general", "confidence": 0.9, "city": "City Name", "country": "Country Name"}]

If no place name can be extracted, respond: []`

const freeformSystemPrompt = `You are a travel recommendation parser that extracts place info from natural language text.

Extract separate fields for name, city and country.

Rules:
1. Extract the actual place NAME ("amazing café called Café Central" gives the name "Café Central").
2. Do NOT include the city or country in the name.
   Wrong: "name": "Cafe Trumpeldor, Tel Aviv"
   Right: "name": "Cafe Trumpeldor", "city": "Tel Aviv"
3. Put city and country mentions into their own fields.
4. Extract tips from descriptive text.
5. Extract the source if one is mentioned.

Categories: food, nightlife, attractions, lodging, shopping, outdoors, general

Source types: friend, instagram, tiktok, youtube, blog, article, email, text, other

Respond ONLY with a valid JSON array:
[{"name": "Place Name", "city": "City", "country": "Country", "category": "food", "confidence": 0.9, "tip": "Try X", "source": {"type": "friend", "name": "Sarah"}}]

Omit source if there is no source. Omit tip if there is no specific recommendation.`

func systemPrompt(mode Mode) string {
	switch mode {
	case ModeStructured:
		return structuredSystemPrompt
	case ModeLink:
		return linkSystemPrompt
	default:
		return freeformSystemPrompt
	}
}

func userPrompt(mode Mode, text, city, country string) string {
	switch mode {
	case ModeStructured:
		return fmt.Sprintf("Location: %s, %s\n\nParse these recommendations:\n%s", city, country, text)
	case ModeLink:
		return fmt.Sprintf(`Extract place information from this shared URL.

The last path segment may be a CITY rather than a country. If it is a city such as "Bat Yam", set it as the city and infer the country.

Shared URL:
%s`, text)
	default:
		return fmt.Sprintf("Extract place information from this text:\n\n%s", text)
	}
}
