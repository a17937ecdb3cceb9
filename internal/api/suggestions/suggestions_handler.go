package suggestions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/internal/api"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const maxSavedPlaces = 200

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// GenerateSuggestions godoc
// @Summary      Suggest places for a city
// @Description  Suggests places that complement the saved places for a city. Results are cached per city until the saved places change.
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        request  body      types.SuggestionRequest  true  "City and saved places"
// @Success      200      {object}  types.SuggestionResult
// @Failure      400      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /suggestions [post]
func (h *HandlerImpl) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SuggestionsHandler").Start(r.Context(), "GenerateSuggestions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/suggestions"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateSuggestions"))

	var req types.SuggestionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.InvalidBody(w, r, err)
		return
	}
	if len(req.SavedPlaces) > maxSavedPlaces {
		span.SetStatus(codes.Error, "too many saved places")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Too many saved places.")
		return
	}

	result, err := h.service.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, types.ErrInvalidRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrMissingCredential):
			l.ErrorContext(ctx, "Suggestions unavailable", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "AI suggestions are not configured.")
		default:
			l.ErrorContext(ctx, "Failed to generate suggestions", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate suggestions.")
		}
		return
	}

	span.SetAttributes(attribute.Int("app.suggestions", len(result.Suggestions)))
	span.SetStatus(codes.Ok, "Suggestions generated")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// ClearCache godoc
// @Summary      Clear the suggestion cache
// @Tags         Suggestions
// @Success      204
// @Router       /suggestions/cache [delete]
func (h *HandlerImpl) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ClearCity godoc
// @Summary      Clear cached suggestions for one city
// @Tags         Suggestions
// @Param        country  path  string  true  "Country name"
// @Param        city     path  string  true  "City name"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse
// @Router       /suggestions/cache/{country}/{city} [delete]
func (h *HandlerImpl) ClearCity(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	city := chi.URLParam(r, "city")
	if !h.service.ClearCity(r.Context(), city, country) {
		api.ErrorResponse(w, r, http.StatusNotFound, "No cached suggestions for this city.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
