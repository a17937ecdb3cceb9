package types

import (
	"strings"
	"time"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotLunch     TimeSlot = "lunch"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
)

// ParseTimeSlot returns afternoon for anything outside the five slots.
func ParseTimeSlot(s string) TimeSlot {
	switch t := TimeSlot(strings.ToLower(strings.TrimSpace(s))); t {
	case SlotMorning, SlotLunch, SlotAfternoon, SlotEvening, SlotNight:
		return t
	}
	return SlotAfternoon
}

// DefaultTime is the clock time used when the model gave none.
func (t TimeSlot) DefaultTime() string {
	switch t {
	case SlotMorning:
		return "10:00"
	case SlotLunch:
		return "12:30"
	case SlotEvening:
		return "19:00"
	case SlotNight:
		return "21:30"
	default:
		return "15:00"
	}
}

type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PacePacked  Pace = "packed"
)

type TripPlace struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Visited     bool     `json:"visited"`
	Description string   `json:"description,omitempty"`
}

type TripPlanRequest struct {
	City         string      `json:"city"`
	Country      string      `json:"country"`
	DurationDays int         `json:"durationDays"`
	Places       []TripPlace `json:"places"`
	PlacesPerDay int         `json:"placesPerDay,omitempty"`
	Pace         Pace        `json:"pace,omitempty"`
}

type PlaceReference struct {
	PlaceID             string   `json:"placeId"`
	Order               int      `json:"order"`
	TimeSlot            TimeSlot `json:"timeSlot"`
	SuggestedTime       string   `json:"suggestedTime"`
	TravelToNextMinutes int      `json:"travelToNextMinutes"`
}

type TripDay struct {
	DayNumber               int              `json:"dayNumber"`
	Theme                   string           `json:"theme"`
	Neighborhood            string           `json:"neighborhood,omitempty"`
	EstimatedWalkingMinutes int              `json:"estimatedWalkingMinutes"`
	Places                  []PlaceReference `json:"places"`
}

type SuggestedAddition struct {
	Name         string     `json:"name"`
	Category     Category   `json:"category"`
	Description  string     `json:"description"`
	WhyItFits    string     `json:"whyItFits"`
	SuggestedDay int        `json:"suggestedDay,omitempty"`
	PriceRange   PriceRange `json:"priceRange,omitempty"`
}

type TripPlanResult struct {
	Days               []TripDay           `json:"days"`
	SuggestedAdditions []SuggestedAddition `json:"suggestedAdditions,omitempty"`
	GeneratedAt        time.Time           `json:"generatedAt"`
	ModelID            string              `json:"modelId"`
}
