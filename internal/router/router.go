package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/travelist-ai/internal/api/description"
	"github.com/FACorreiaa/travelist-ai/internal/api/itinerary"
	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/api/recommendation"
	"github.com/FACorreiaa/travelist-ai/internal/api/suggestions"
)

// Config contains the handlers mounted by SetupRouter.
type Config struct {
	RecommendationHandler *recommendation.HandlerImpl
	SuggestionsHandler    *suggestions.HandlerImpl
	ItineraryHandler      *itinerary.HandlerImpl
	DescriptionHandler    *description.HandlerImpl
	LLMInteractionHandler *llmInteraction.HandlerImpl
	AllowedOrigins        []string
}

// SetupRouter builds the API router. Request ID, logging and recovery
// middleware are applied by the caller.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000", "capacitor://localhost"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations/extract", cfg.RecommendationHandler.ExtractPlaces)

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/", cfg.SuggestionsHandler.GenerateSuggestions)
			r.Delete("/cache", cfg.SuggestionsHandler.ClearCache)
			r.Delete("/cache/{country}/{city}", cfg.SuggestionsHandler.ClearCity)
		})

		r.Post("/trips/plan", cfg.ItineraryHandler.PlanTrip)
		r.Post("/places/describe", cfg.DescriptionHandler.DescribePlace)
		r.Get("/llm/interactions", cfg.LLMInteractionHandler.ListInteractions)
	})

	return r
}
