package description

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/internal/api"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{service: service, logger: logger}
}

// DescribePlace godoc
// @Summary      Describe a saved place
// @Description  Returns a short description of a place. Descriptions are cached for 30 days.
// @Tags         Places
// @Accept       json
// @Produce      json
// @Param        request  body      types.PlaceDescriptionRequest  true  "Place to describe"
// @Success      200      {object}  types.PlaceDescriptionResult
// @Failure      400      {object}  types.ErrorResponse
// @Router       /places/describe [post]
func (h *HandlerImpl) DescribePlace(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DescriptionHandler").Start(r.Context(), "DescribePlace", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/describe"),
	))
	defer span.End()

	var req types.PlaceDescriptionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.InvalidBody(w, r, err)
		return
	}
	if req.PlaceName == "" || req.City == "" {
		span.SetStatus(codes.Error, "missing fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Fields 'placeName' and 'city' are required.")
		return
	}

	result := h.service.Describe(ctx, req)
	span.SetAttributes(attribute.Bool("app.cached", result.Cached))
	if result.Error != "" {
		span.SetStatus(codes.Error, result.Error)
	} else {
		span.SetStatus(codes.Ok, "Place described")
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
