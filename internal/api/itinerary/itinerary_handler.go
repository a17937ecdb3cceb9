package itinerary

import (
	"errors"
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

// PlanTrip godoc
// @Summary      Plan a trip from saved places
// @Description  Schedules the given places into days, with time slots and walking estimates, and suggests a few additions.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        request  body      types.TripPlanRequest  true  "Trip to plan"
// @Success      200      {object}  types.TripPlanResult
// @Failure      400      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /trips/plan [post]
func (h *HandlerImpl) PlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "PlanTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/plan"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanTrip"))

	var req types.TripPlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.InvalidBody(w, r, err)
		return
	}

	plan, err := h.service.Plan(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, types.ErrInvalidRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrMissingCredential):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "AI trip planning is not configured.")
		case errors.Is(err, types.ErrModelUnavailable),
			errors.Is(err, types.ErrMalformedAnswer),
			errors.Is(err, types.ErrMissingDayList),
			errors.Is(err, types.ErrEmptyAnswer):
			api.ErrorResponse(w, r, http.StatusBadGateway, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to plan trip", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to plan trip.")
		}
		return
	}

	span.SetAttributes(attribute.Int("app.trip_days", len(plan.Days)))
	span.SetStatus(codes.Ok, "Trip planned")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}
