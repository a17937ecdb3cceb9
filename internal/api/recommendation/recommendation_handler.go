package recommendation

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/internal/api"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const maxTextLength = 20_000

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// ExtractPlaces godoc
// @Summary      Extract places from recommendation text
// @Description  Parses free text, a shared link, or text with a known city and country into candidate places.
// @Tags         Recommendations
// @Accept       json
// @Produce      json
// @Param        request  body      types.ExtractRequest  true  "Recommendation text"
// @Success      200      {object}  types.ExtractionResult
// @Failure      400      {object}  types.ErrorResponse
// @Router       /recommendations/extract [post]
func (h *HandlerImpl) ExtractPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "ExtractPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations/extract"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ExtractPlaces"))

	var req types.ExtractRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.InvalidBody(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		span.SetStatus(codes.Error, "text missing")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Field 'text' is required.")
		return
	}
	if len(req.Text) > maxTextLength {
		span.SetStatus(codes.Error, "text too long")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Field 'text' is too long.")
		return
	}

	result := h.service.Extract(ctx, req.Text, req.Context)
	span.SetAttributes(attribute.Int("app.places", len(result.Places)))
	if result.Error != "" {
		span.SetStatus(codes.Error, result.Error)
	} else {
		span.SetStatus(codes.Ok, "Places extracted")
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
