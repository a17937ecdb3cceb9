package description

import (
	"context"
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
	describeTemperature = 0.3
	describeMaxTokens   = 500
	purposeDescribe     = "describe"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Describe never returns a Go error; failures are reported in the result.
	Describe(ctx context.Context, req types.PlaceDescriptionRequest) types.PlaceDescriptionResult
}

type ServiceImpl struct {
	gateway llmInteraction.Gateway
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
}

func NewServiceImpl(gateway llmInteraction.Gateway, store Store, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ServiceImpl{gateway: gateway, store: store, ttl: ttl, logger: logger}
}

func (s *ServiceImpl) Describe(ctx context.Context, req types.PlaceDescriptionRequest) types.PlaceDescriptionResult {
	ctx, span := otel.Tracer("DescriptionService").Start(ctx, "Describe", trace.WithAttributes(
		attribute.String("place.name", req.PlaceName),
		attribute.String("place.city", req.City),
		attribute.String("description.store", s.store.Name()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Describe"), slog.String("place", req.PlaceName))

	if strings.TrimSpace(req.PlaceName) == "" || strings.TrimSpace(req.City) == "" {
		span.SetStatus(codes.Error, "invalid request")
		return types.PlaceDescriptionResult{Error: "placeName and city are required"}
	}

	key := CacheKey(req.PlaceName, req.City, string(req.Category))
	cached, ok, err := s.store.Get(ctx, key)
	switch {
	case err != nil:
		l.WarnContext(ctx, "Description store lookup failed", slog.Any("error", err))
		span.RecordError(err)
		s.observe(ctx, "error")
	case ok:
		s.observe(ctx, "hit")
		span.SetStatus(codes.Ok, "cache hit")
		return types.PlaceDescriptionResult{Description: cached.Description, GroundingSources: cached.GroundingSources, Cached: true}
	default:
		s.observe(ctx, "miss")
	}

	if err := s.gateway.Ready(); err != nil {
		span.SetStatus(codes.Error, "gateway not ready")
		return types.PlaceDescriptionResult{Error: err.Error()}
	}

	category := types.ParseCategory(string(req.Category))
	temp := float32(describeTemperature)
	res := s.gateway.Invoke(ctx, []types.Message{
		{Role: types.RoleSystem, Content: systemPrompt(category)},
		{Role: types.RoleUser, Content: userPrompt(req, category)},
	}, llmInteraction.InvokeOptions{
		Temperature: &temp,
		MaxTokens:   describeMaxTokens,
		Purpose:     purposeDescribe,
		Grounding:   true,
	})
	if res.Error != "" {
		l.WarnContext(ctx, "Gateway failed to describe place", slog.String("error", res.Error))
		span.SetStatus(codes.Error, res.Error)
		return types.PlaceDescriptionResult{Error: res.Error, ModelID: res.ModelID}
	}

	text := cleanDescription(res.Content)
	if text == "" {
		span.SetStatus(codes.Error, "empty description")
		return types.PlaceDescriptionResult{Error: types.ErrEmptyAnswer.Error(), ModelID: res.ModelID}
	}

	entry := Entry{Description: text, GroundingSources: res.GroundingSources}
	if err := s.store.Set(ctx, key, entry, s.ttl); err != nil {
		l.WarnContext(ctx, "Failed to store description", slog.Any("error", err))
		span.RecordError(err)
	}
	span.SetStatus(codes.Ok, "described")
	return types.PlaceDescriptionResult{Description: text, GroundingSources: res.GroundingSources, ModelID: res.ModelID}
}

func (s *ServiceImpl) observe(ctx context.Context, result string) {
	metrics.Get().DescriptionCacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
		attribute.String("store", s.store.Name()),
	))
}

func cleanDescription(content string) string {
	text := llmInteraction.CleanJSONResponse(content)
	text = strings.TrimSpace(strings.Trim(text, "\"'"))
	return text
}
