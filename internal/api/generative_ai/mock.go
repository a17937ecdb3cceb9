package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

var _ CompletionClient = (*MockClient)(nil)

// MockClient answers from canned data so the service runs without a key.
// It recognises the prompt of each feature and replies in that feature's
// answer format.
type MockClient struct {
	logger *slog.Logger
}

func NewMockClient(logger *slog.Logger) *MockClient {
	return &MockClient{logger: logger}
}

func (c *MockClient) Provider() string { return "mock" }

var (
	mockPlaceID      = regexp.MustCompile(`(?m)^- ID: ("(?:[^"\\]|\\.)*")`)
	mockDuration     = regexp.MustCompile(`Duration: (\d+) days`)
	mockSuggestCount = regexp.MustCompile(`Please suggest (\d+) additional places`)
	mockExcluded     = regexp.MustCompile(`Do NOT suggest places in these categories: (.+)`)
	mockDescribe     = regexp.MustCompile(`Write a brief description for: (.+)\nLOCATION: ([^,\n]*)`)
)

type mockSuggestion struct {
	Name                string   `json:"name"`
	Category            string   `json:"category"`
	Description         string   `json:"description"`
	WhyRecommended      string   `json:"whyRecommended"`
	EstimatedPriceRange string   `json:"estimatedPriceRange,omitempty"`
	Tags                []string `json:"tags"`
}

var mockSuggestions = []mockSuggestion{
	{"The Local Kitchen", "food", "Farm-to-table restaurant showcasing regional ingredients with modern techniques.", "Based on your interest in authentic local cuisine", "$$", []string{"local favorite", "farm-to-table"}},
	{"Historic Old Town Walking Tour", "attractions", "Guided tour through centuries-old streets and hidden courtyards.", "You've saved several cultural sites in this area", "", []string{"cultural", "walking tour"}},
	{"Rooftop Cocktail Lounge", "nightlife", "Sophisticated bar with craft cocktails and city views.", "Perfect for evening drinks based on your saved restaurants", "$$$", []string{"rooftop", "cocktails"}},
	{"Artisan Market District", "shopping", "Neighborhood known for handcrafted goods and local designers.", "Great for unique souvenirs and local crafts", "$$", []string{"artisan", "local"}},
	{"City Park & Gardens", "outdoors", "Beautiful green space perfect for morning walks or picnics.", "A peaceful escape from the city bustle", "", []string{"nature", "relaxing"}},
	{"Street Food Market", "food", "Bustling market with dozens of local vendors serving traditional dishes.", "You seem to enjoy casual dining experiences", "$", []string{"casual", "authentic"}},
	{"Local Art Museum", "attractions", "Contemporary art space featuring local and international artists.", "Based on your interest in cultural experiences", "", []string{"art", "culture"}},
	{"Boutique Heritage Hotel", "lodging", "Charming hotel in a restored historic building with modern amenities.", "Matches your preference for unique accommodations", "$$$", []string{"boutique", "historic"}},
	{"Live Music Venue", "nightlife", "Intimate space hosting local and touring musicians nightly.", "For experiencing the local music scene", "$$", []string{"live music", "local scene"}},
	{"Neighborhood Food Tour", "general", "Small group tour sampling local specialties with a knowledgeable guide.", "Combines your interests in food and local culture", "$$", []string{"food tour", "local guide"}},
}

var mockSlots = []struct {
	slot string
	time string
}{
	{"morning", "09:30"}, {"lunch", "12:30"}, {"afternoon", "15:00"}, {"evening", "18:30"}, {"night", "21:00"},
}

func (c *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var prompt string
	for _, m := range req.Messages {
		if m.Role == types.RoleUser {
			prompt = m.Content
		}
	}

	var (
		content string
		err     error
	)
	switch {
	case strings.Contains(prompt, "PLACES TO SCHEDULE"):
		content, err = mockItinerary(prompt)
	case mockSuggestCount.MatchString(prompt):
		content, err = mockSuggestionList(prompt)
	case mockDescribe.MatchString(prompt):
		m := mockDescribe.FindStringSubmatch(prompt)
		content = fmt.Sprintf("%s is a well-loved spot in %s. Locals suggest visiting outside peak hours.",
			strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	default:
		content = "[]"
	}
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "Mock completion", slog.String("model", req.Model), slog.Int("chars", len(content)))
	return &CompletionResponse{
		Content:          content,
		Model:            req.Model,
		PromptTokens:     CountMessageTokens(req.Messages),
		CompletionTokens: CountTokens(content),
	}, nil
}

func mockSuggestionList(prompt string) (string, error) {
	n, _ := strconv.Atoi(mockSuggestCount.FindStringSubmatch(prompt)[1])
	excluded := map[string]bool{}
	if m := mockExcluded.FindStringSubmatch(prompt); m != nil {
		for _, cat := range strings.Split(m[1], ",") {
			excluded[strings.TrimSpace(cat)] = true
		}
	}
	out := make([]mockSuggestion, 0, n)
	for _, s := range mockSuggestions {
		if len(out) == n {
			break
		}
		if !excluded[s.Category] {
			out = append(out, s)
		}
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func mockItinerary(prompt string) (string, error) {
	days := 1
	if m := mockDuration.FindStringSubmatch(prompt); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && d > 0 {
			days = d
		}
	}
	var ids []string
	for _, m := range mockPlaceID.FindAllStringSubmatch(prompt, -1) {
		id, err := strconv.Unquote(m[1])
		if err != nil {
			return "", fmt.Errorf("mock itinerary: bad place id %s: %w", m[1], err)
		}
		ids = append(ids, id)
	}

	perDay := int(math.Ceil(float64(len(ids)) / float64(days)))
	type place struct {
		PlaceID             string `json:"placeId"`
		TimeSlot            string `json:"timeSlot"`
		SuggestedTime       string `json:"suggestedTime"`
		TravelToNextMinutes int    `json:"travelToNextMinutes"`
	}
	type day struct {
		Theme                   string  `json:"theme"`
		EstimatedWalkingMinutes int     `json:"estimatedWalkingMinutes"`
		Places                  []place `json:"places"`
	}
	plan := struct {
		Days []day `json:"days"`
	}{Days: make([]day, days)}
	for i := range plan.Days {
		plan.Days[i] = day{Theme: fmt.Sprintf("Day %d highlights", i+1), Places: []place{}}
	}
	for i, id := range ids {
		d := &plan.Days[i/max(perDay, 1)]
		slot := mockSlots[len(d.Places)%len(mockSlots)]
		d.Places = append(d.Places, place{PlaceID: id, TimeSlot: slot.slot, SuggestedTime: slot.time, TravelToNextMinutes: 10})
		d.EstimatedWalkingMinutes += 15
	}
	b, err := json.Marshal(plan)
	return string(b), err
}
