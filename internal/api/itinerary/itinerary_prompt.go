package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const DefaultPlacesPerDay = 5

const plannerSystemPrompt = `You are an expert travel itinerary optimizer. Your job is to:
1. Organize a list of the user's SAVED places into an efficient day-by-day trip schedule
2. Suggest 3-5 ADDITIONAL places that would complement their trip

CRITICAL SCHEDULING RULES:
1. GROUP places by proximity: nearby places should be on the same day to minimize travel
2. ORDER places within each day to create an efficient walking route with no backtracking
3. NEVER schedule viewpoints, outdoor activities, attractions or shopping at night (after 21:00)
4. Schedule restaurants around meal times:
   - Breakfast/brunch: 9:00-11:00 (morning)
   - Lunch: 12:00-14:00 (lunch)
   - Dinner: 19:00-21:00 (evening)
5. Schedule nightlife/bars only for evening/night slots (after 18:00)
6. Museums and indoor attractions can be scheduled any time during daylight
7. Outdoor activities should be morning or afternoon
8. Aim for a balanced number of places per day
9. Prioritize unvisited places over visited ones
10. Estimate walking minutes between consecutive places

TIME SLOTS:
- "morning": 9:00-12:00
- "lunch": 12:00-14:00
- "afternoon": 14:00-18:00
- "evening": 18:00-21:00
- "night": 21:00+

CATEGORY CLASSIFICATIONS:
- food: restaurants, cafes, bakeries. Schedule around meal times
- nightlife: bars, clubs. Evening/night only
- attractions: museums, landmarks. Morning/afternoon/evening, NOT night
- outdoors: parks, viewpoints, nature. Morning/afternoon ONLY
- shopping: stores, markets. Daytime only
- lodging: hotels. Flexible
- general: treat as attractions

SUGGESTED ADDITIONS RULES:
- Suggest 3-5 REAL, well-known places in the same city that the user HASN'T saved
- They should COMPLEMENT the user's existing preferences
- Fill gaps: no lunch spots means suggest restaurants; all attractions means suggest a cafe break
- Explain WHY each suggestion fits their trip

Respond ONLY with a valid JSON object, no markdown, no explanation:
{
  "days": [
    {
      "dayNumber": 1,
      "theme": "Short descriptive theme like 'Historic Old Town'",
      "neighborhood": "Primary area name",
      "estimatedWalkingMinutes": 45,
      "places": [
        {
          "placeId": "exact-id-from-input",
          "order": 1,
          "timeSlot": "morning",
          "suggestedTime": "10:00",
          "travelToNextMinutes": 15
        }
      ]
    }
  ],
  "suggestedAdditions": [
    {
      "name": "Actual Place Name",
      "category": "food",
      "description": "Brief description of what makes this place special",
      "whyItFits": "Explanation of why this complements their trip",
      "suggestedDay": 2,
      "estimatedPriceRange": "$$"
    }
  ]
}`

func buildUserPrompt(req types.TripPlanRequest) string {
	placesPerDay := req.PlacesPerDay
	if placesPerDay <= 0 {
		placesPerDay = DefaultPlacesPerDay
	}

	var (
		b        strings.Builder
		visited  int
		order    []string
		catCount = map[string]int{}
	)
	for _, p := range req.Places {
		if p.Visited {
			visited++
		}
		cat := string(types.ParseCategory(string(p.Category)))
		if _, ok := catCount[cat]; !ok {
			order = append(order, cat)
		}
		catCount[cat]++
	}

	b.WriteString("TRIP PLANNING REQUEST\n\n")
	fmt.Fprintf(&b, "Location: %s, %s\n", req.City, req.Country)
	fmt.Fprintf(&b, "Duration: %d days\n", req.DurationDays)
	fmt.Fprintf(&b, "Target places per day: %d\n\n", placesPerDay)
	fmt.Fprintf(&b, "PLACES TO SCHEDULE (%d total, %d unvisited, %d visited):\n", len(req.Places), len(req.Places)-visited, visited)
	for _, p := range req.Places {
		fmt.Fprintf(&b, "- ID: %q | Name: %s | Category: %s", strings.TrimSpace(p.ID), p.Name, types.ParseCategory(string(p.Category)))
		if p.Visited {
			b.WriteString(" | [VISITED - lower priority]")
		}
		if p.Description != "" {
			fmt.Fprintf(&b, " | %s", p.Description)
		}
		b.WriteString("\n")
	}

	breakdown := make([]string, len(order))
	for i, cat := range order {
		breakdown[i] = fmt.Sprintf("%s: %d", cat, catCount[cat])
	}
	fmt.Fprintf(&b, "\nCategory breakdown: %s\n\n", strings.Join(breakdown, ", "))

	b.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. Create a %d-day itinerary using ONLY the places listed above\n", req.DurationDays)
	b.WriteString("2. Use the EXACT placeId values from the list\n")
	b.WriteString("3. Group nearby places together on the same day\n")
	b.WriteString("4. Order places efficiently to minimize walking between them\n")
	b.WriteString("5. IMPORTANT: Never schedule \"outdoors\", \"attractions\" or \"shopping\" category places at night\n")
	b.WriteString("6. Schedule \"food\" category around meal times\n")
	b.WriteString("7. Schedule \"nightlife\" category only for evening/night\n")
	b.WriteString("8. Prioritize unvisited places")
	switch req.Pace {
	case types.PaceRelaxed:
		b.WriteString("\n9. User prefers a relaxed pace - schedule fewer places per day (3-4 max)")
	case types.PacePacked:
		b.WriteString("\n9. User wants a packed schedule - maximize places per day (6-7)")
	}
	b.WriteString("\n\nGenerate the optimized itinerary now.")
	return b.String()
}
