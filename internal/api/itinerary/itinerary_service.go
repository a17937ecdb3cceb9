package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/app/observability/metrics"
	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	planTemperature = 0.5
	planMaxTokens   = 3000
	purposePlan     = "itinerary"
	maxTripDays     = 30
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Plan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlanResult, error)
}

type ServiceImpl struct {
	gateway llmInteraction.Gateway
	now     func() time.Time
	logger  *slog.Logger
}

func NewServiceImpl(gateway llmInteraction.Gateway, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{gateway: gateway, now: time.Now, logger: logger}
}

func validateRequest(req types.TripPlanRequest) error {
	if req.DurationDays < 1 || req.DurationDays > maxTripDays {
		return fmt.Errorf("%w: durationDays must be between 1 and %d", types.ErrInvalidRequest, maxTripDays)
	}
	if len(req.Places) == 0 {
		return fmt.Errorf("%w: at least one place is required", types.ErrInvalidRequest)
	}
	seen := make(map[string]struct{}, len(req.Places))
	for i, p := range req.Places {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: place %d has no id", types.ErrInvalidRequest, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate place id %q", types.ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s *ServiceImpl) Plan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlanResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Plan", trace.WithAttributes(
		attribute.String("trip.city", req.City),
		attribute.Int("trip.duration_days", req.DurationDays),
		attribute.Int("trip.places", len(req.Places)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Plan"), slog.String("city", req.City))

	if err := validateRequest(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}
	if err := s.gateway.Ready(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway not ready")
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	temp := float32(planTemperature)
	res := s.gateway.Invoke(ctx, []types.Message{
		{Role: types.RoleSystem, Content: plannerSystemPrompt},
		{Role: types.RoleUser, Content: buildUserPrompt(req)},
	}, llmInteraction.InvokeOptions{
		Temperature: &temp,
		MaxTokens:   planMaxTokens,
		Purpose:     purposePlan,
	})
	if res.Error != "" {
		l.ErrorContext(ctx, "Gateway failed to plan trip", slog.String("error", res.Error), slog.String("model", res.ModelID))
		span.SetStatus(codes.Error, res.Error)
		return nil, fmt.Errorf("%w: %s", types.ErrModelUnavailable, res.Error)
	}

	plan, repairs, err := validatePlan(res.Content, req.Places)
	if err != nil {
		l.ErrorContext(ctx, "Model plan rejected", slog.Any("error", err), slog.String("model", res.ModelID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid plan")
		return nil, err
	}
	plan.GeneratedAt = s.now().UTC()
	plan.ModelID = res.ModelID

	total := 0
	for reason, n := range repairs {
		total += n
		metrics.Get().ItineraryRepairsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
	if total > 0 {
		l.DebugContext(ctx, "Repaired model plan", slog.Any("repairs", map[string]int(repairs)))
	}

	l.InfoContext(ctx, "Trip planned", slog.Int("days", len(plan.Days)), slog.Int("repairs", total), slog.String("model", res.ModelID))
	span.SetAttributes(attribute.Int("trip.days", len(plan.Days)), attribute.Int("trip.repairs", total))
	span.SetStatus(codes.Ok, "planned")
	return plan, nil
}
