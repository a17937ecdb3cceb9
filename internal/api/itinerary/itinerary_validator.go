package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	maxAdditions              = 5
	defaultTravelMinutes      = 10
	walkingMinutesPerPlace    = 15
	defaultWhyItFits          = "Would complement your trip"
	repairUnknownPlace        = "unknown_place"
	repairDuplicatePlace      = "duplicate_place"
	repairTimeSlot            = "time_slot"
	repairSuggestedTime       = "suggested_time"
	repairTravelMinutes       = "travel_minutes"
	repairWalkingMinutes      = "walking_minutes"
	repairMalformedReference  = "malformed_reference"
	repairDroppedAddition     = "dropped_addition"
	repairSuggestedDayDropped = "suggested_day"
)

type rawPlan struct {
	Days               json.RawMessage `json:"days"`
	SuggestedAdditions json.RawMessage `json:"suggestedAdditions"`
}

type rawDay struct {
	Theme                   llmInteraction.LooseString `json:"theme"`
	Neighborhood            llmInteraction.LooseString `json:"neighborhood"`
	EstimatedWalkingMinutes llmInteraction.LooseNumber `json:"estimatedWalkingMinutes"`
	Places                  json.RawMessage            `json:"places"`
}

type rawReference struct {
	PlaceID             llmInteraction.LooseString `json:"placeId"`
	TimeSlot            llmInteraction.LooseString `json:"timeSlot"`
	SuggestedTimeSlot   llmInteraction.LooseString `json:"suggestedTimeSlot"`
	SuggestedTime       llmInteraction.LooseString `json:"suggestedTime"`
	TravelToNextMinutes llmInteraction.LooseNumber `json:"travelToNextMinutes"`
}

type rawAddition struct {
	Name                json.RawMessage            `json:"name"`
	Category            llmInteraction.LooseString `json:"category"`
	Description         llmInteraction.LooseString `json:"description"`
	WhyItFits           llmInteraction.LooseString `json:"whyItFits"`
	SuggestedDay        llmInteraction.LooseNumber `json:"suggestedDay"`
	EstimatedPriceRange llmInteraction.LooseString `json:"estimatedPriceRange"`
	PriceRange          llmInteraction.LooseString `json:"priceRange"`
}

// Repairs counts corrections made to a model plan, by reason.
type Repairs map[string]int

func (r Repairs) add(reason string) { r[reason]++ }

// validatePlan turns a model answer into a plan whose every reference points
// at a requested place exactly once. Everything else is repaired in place.
func validatePlan(content string, places []types.TripPlace) (*types.TripPlanResult, Repairs, error) {
	repairs := Repairs{}
	if strings.TrimSpace(content) == "" {
		return nil, repairs, types.ErrEmptyAnswer
	}
	obj, ok := llmInteraction.ExtractJSONObject(content)
	if !ok {
		return nil, repairs, types.ErrMalformedAnswer
	}
	var plan rawPlan
	if err := json.Unmarshal([]byte(obj), &plan); err != nil {
		return nil, repairs, fmt.Errorf("%w: %v", types.ErrMalformedAnswer, err)
	}
	days, err := decodeList(plan.Days)
	if err != nil {
		return nil, repairs, types.ErrMissingDayList
	}

	known := make(map[string]struct{}, len(places))
	for _, p := range places {
		known[strings.TrimSpace(p.ID)] = struct{}{}
	}
	used := make(map[string]struct{}, len(places))

	result := &types.TripPlanResult{Days: make([]types.TripDay, 0, len(days))}
	for i, rawDayJSON := range days {
		var d rawDay
		if err := json.Unmarshal(rawDayJSON, &d); err != nil {
			d = rawDay{}
		}
		day := types.TripDay{
			DayNumber:    i + 1,
			Theme:        d.Theme.Trim(),
			Neighborhood: d.Neighborhood.Trim(),
			Places:       validateReferences(d.Places, known, used, repairs),
		}
		if day.Theme == "" {
			day.Theme = fmt.Sprintf("Day %d", day.DayNumber)
		}
		day.EstimatedWalkingMinutes = d.EstimatedWalkingMinutes.Int()
		if !d.EstimatedWalkingMinutes.Set || day.EstimatedWalkingMinutes <= 0 {
			day.EstimatedWalkingMinutes = walkingMinutesPerPlace * len(day.Places)
			repairs.add(repairWalkingMinutes)
		}
		result.Days = append(result.Days, day)
	}

	result.SuggestedAdditions = validateAdditions(plan.SuggestedAdditions, len(result.Days), repairs)
	return result, repairs, nil
}

func validateReferences(raw json.RawMessage, known, used map[string]struct{}, repairs Repairs) []types.PlaceReference {
	items, err := decodeList(raw)
	if err != nil {
		return []types.PlaceReference{}
	}

	refs := make([]types.PlaceReference, 0, len(items))
	for _, item := range items {
		var r rawReference
		if err := json.Unmarshal(item, &r); err != nil {
			repairs.add(repairMalformedReference)
			continue
		}
		id := r.PlaceID.Trim()
		if _, ok := known[id]; !ok {
			repairs.add(repairUnknownPlace)
			continue
		}
		if _, dup := used[id]; dup {
			repairs.add(repairDuplicatePlace)
			continue
		}
		used[id] = struct{}{}

		rawSlot := r.TimeSlot.Trim()
		if rawSlot == "" {
			rawSlot = r.SuggestedTimeSlot.Trim()
		}
		slot := types.ParseTimeSlot(rawSlot)
		if string(slot) != strings.ToLower(rawSlot) {
			repairs.add(repairTimeSlot)
		}

		suggested, ok := normalizeTime(r.SuggestedTime.Trim())
		if !ok {
			suggested = slot.DefaultTime()
			repairs.add(repairSuggestedTime)
		}

		travel := defaultTravelMinutes
		if r.TravelToNextMinutes.Set {
			travel = r.TravelToNextMinutes.Int()
		} else {
			repairs.add(repairTravelMinutes)
		}
		if travel < 0 {
			travel = 0
			repairs.add(repairTravelMinutes)
		}

		refs = append(refs, types.PlaceReference{
			PlaceID:             id,
			Order:               len(refs) + 1,
			TimeSlot:            slot,
			SuggestedTime:       suggested,
			TravelToNextMinutes: travel,
		})
	}
	return refs
}

func validateAdditions(raw json.RawMessage, dayCount int, repairs Repairs) []types.SuggestedAddition {
	items, err := decodeList(raw)
	if err != nil {
		return nil
	}
	var out []types.SuggestedAddition
	for _, item := range items {
		if len(out) >= maxAdditions {
			break
		}
		var a rawAddition
		if err := json.Unmarshal(item, &a); err != nil {
			repairs.add(repairDroppedAddition)
			continue
		}
		var name string
		if err := json.Unmarshal(a.Name, &name); err != nil || strings.TrimSpace(name) == "" {
			repairs.add(repairDroppedAddition)
			continue
		}
		add := types.SuggestedAddition{
			Name:        strings.TrimSpace(name),
			Category:    types.ParseCategory(a.Category.Trim()),
			Description: a.Description.Trim(),
			WhyItFits:   a.WhyItFits.Trim(),
		}
		if add.WhyItFits == "" {
			add.WhyItFits = defaultWhyItFits
		}
		price := a.EstimatedPriceRange.Trim()
		if price == "" {
			price = a.PriceRange.Trim()
		}
		if pr, ok := types.ParsePriceRange(price); ok {
			add.PriceRange = pr
		}
		if a.SuggestedDay.Set {
			if d := a.SuggestedDay.Int(); d >= 1 && d <= dayCount {
				add.SuggestedDay = d
			} else {
				repairs.add(repairSuggestedDayDropped)
			}
		}
		out = append(out, add)
	}
	return out
}

// normalizeTime accepts H:MM or HH:MM on a 24 hour clock and returns HH:MM.
func normalizeTime(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

var errNotAList = errors.New("not a list")

// decodeList fails unless raw holds a JSON array.
func decodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errNotAList
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
