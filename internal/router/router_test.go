package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travelist-ai/internal/api/description"
	generativeAI "github.com/FACorreiaa/travelist-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/travelist-ai/internal/api/itinerary"
	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/api/recommendation"
	"github.com/FACorreiaa/travelist-ai/internal/api/suggestions"
)

// newTestRouter wires real services behind a gateway using client, which may
// be nil.
func newTestRouter(client generativeAI.CompletionClient) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	gw := llmInteraction.NewGateway(client, llmInteraction.NewLogLlmInteractionRepo(logger), "primary", "fallback", logger)
	return SetupRouter(&Config{
		RecommendationHandler: recommendation.NewHandlerImpl(recommendation.NewServiceImpl(gw, logger), logger),
		SuggestionsHandler: suggestions.NewHandlerImpl(
			suggestions.NewServiceImpl(gw, suggestions.NewCache(0, 0, logger), 5, logger), logger),
		ItineraryHandler: itinerary.NewHandlerImpl(itinerary.NewServiceImpl(gw, logger), logger),
		DescriptionHandler: description.NewHandlerImpl(
			description.NewServiceImpl(gw, description.NewMemoryStore(0), 0, logger), logger),
		LLMInteractionHandler: llmInteraction.NewHandlerImpl(nil, logger),
	})
}

func TestSetupRouter(t *testing.T) {
	r := newTestRouter(nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"ping", http.MethodGet, "/ping", "", http.StatusOK},
		{"suggestions without key", http.MethodPost, "/api/v1/suggestions",
			`{"cityName":"Lisbon","countryName":"Portugal","savedPlaces":[]}`, http.StatusServiceUnavailable},
		{"trip without key", http.MethodPost, "/api/v1/trips/plan",
			`{"city":"Rome","country":"Italy","durationDays":1,"places":[{"id":"p1","name":"Colosseum","category":"attractions","visited":false}]}`,
			http.StatusServiceUnavailable},
		{"trip invalid", http.MethodPost, "/api/v1/trips/plan", `{"city":"Rome","durationDays":0,"places":[]}`, http.StatusBadRequest},
		{"clear cache", http.MethodDelete, "/api/v1/suggestions/cache", "", http.StatusNoContent},
		{"clear unknown city", http.MethodDelete, "/api/v1/suggestions/cache/Italy/Rome", "", http.StatusNotFound},
		{"interactions disabled", http.MethodGet, "/api/v1/llm/interactions?purpose=extract", "", http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}

	t.Run("extract degrades to error field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/extract", strings.NewReader(`{"text":"Try Nopa in SF"}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"API key not configured"`)
	})
}

func TestSetupRouter_MockProvider(t *testing.T) {
	r := newTestRouter(generativeAI.NewMockClient(slog.New(slog.NewTextHandler(os.Stdout, nil))))

	post := func(t *testing.T, path, body string) map[string]any {
		t.Helper()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	t.Run("suggestions", func(t *testing.T) {
		out := post(t, "/api/v1/suggestions",
			`{"cityName":"Lisbon","countryName":"Portugal","savedPlaces":[{"name":"The Local Kitchen","category":"food"}],"maxSuggestions":3,"excludeCategories":["nightlife"]}`)
		assert.Empty(t, out["error"])
		suggestions, ok := out["suggestions"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, suggestions)
		for _, s := range suggestions {
			item := s.(map[string]any)
			assert.NotEqual(t, "The Local Kitchen", item["name"])
			assert.NotEqual(t, "nightlife", item["category"])
		}
	})

	t.Run("trip plan schedules every place once", func(t *testing.T) {
		out := post(t, "/api/v1/trips/plan",
			`{"city":"Rome","country":"Italy","durationDays":2,"places":[
				{"id":"p1","name":"Colosseum","category":"attractions"},
				{"id":"p2","name":"Roscioli","category":"food"},
				{"id":"p3","name":"Freni e Frizioni","category":"nightlife"}]}`)
		days, ok := out["days"].([]any)
		require.True(t, ok)
		require.Len(t, days, 2)
		seen := map[string]int{}
		for _, d := range days {
			for _, p := range d.(map[string]any)["places"].([]any) {
				seen[p.(map[string]any)["placeId"].(string)]++
			}
		}
		assert.Equal(t, map[string]int{"p1": 1, "p2": 1, "p3": 1}, seen)
	})

	t.Run("describe", func(t *testing.T) {
		out := post(t, "/api/v1/places/describe", `{"placeName":"Tram 28","city":"Lisbon","country":"Portugal"}`)
		assert.Contains(t, out["description"], "Tram 28")
		assert.Empty(t, out["error"])
	})

	t.Run("extract", func(t *testing.T) {
		out := post(t, "/api/v1/recommendations/extract", `{"text":"Try Nopa in SF"}`)
		assert.Empty(t, out["error"])
		assert.Empty(t, out["places"])
	})
}
