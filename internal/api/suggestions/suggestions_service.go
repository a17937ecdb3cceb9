package suggestions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	DefaultMaxSuggestions = 5
	suggestTemperature    = 0.7
	suggestMaxTokens      = 2000
	purposeSuggest        = "suggestions"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, req types.SuggestionRequest) (types.SuggestionResult, error)
	ClearCache(ctx context.Context)
	ClearCity(ctx context.Context, city, country string) bool
}

type ServiceImpl struct {
	gateway        llmInteraction.Gateway
	cache          *Cache
	flights        singleflight.Group
	maxSuggestions int
	now            func() time.Time
	logger         *slog.Logger
}

func NewServiceImpl(gateway llmInteraction.Gateway, cache *Cache, maxSuggestions int, logger *slog.Logger) *ServiceImpl {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &ServiceImpl{
		gateway:        gateway,
		cache:          cache,
		maxSuggestions: maxSuggestions,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, req types.SuggestionRequest) (types.SuggestionResult, error) {
	ctx, span := otel.Tracer("SuggestionsService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("suggestions.city", req.CityName),
		attribute.String("suggestions.country", req.CountryName),
		attribute.Int("suggestions.saved_places", len(req.SavedPlaces)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("city", req.CityName))

	if strings.TrimSpace(req.CityName) == "" || strings.TrimSpace(req.CountryName) == "" {
		span.SetStatus(codes.Error, "invalid request")
		return types.SuggestionResult{}, fmt.Errorf("%w: cityName and countryName are required", types.ErrInvalidRequest)
	}

	if cached, ok := s.cache.Get(ctx, req.CityName, req.CountryName, req.SavedPlaces); ok {
		l.DebugContext(ctx, "Serving suggestions from cache")
		span.SetAttributes(attribute.Bool("suggestions.cache_hit", true))
		span.SetStatus(codes.Ok, "cache hit")
		return cached, nil
	}

	if err := s.gateway.Ready(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway not ready")
		return types.SuggestionResult{}, fmt.Errorf("generate suggestions: %w", err)
	}

	key := CacheKey(req.CityName, req.CountryName) + "#" + Fingerprint(req.SavedPlaces)
	// the flight outlives any single caller so one cancellation does not fail the others
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.flights.Do(key, func() (interface{}, error) {
		if cached, ok := s.cache.Get(flightCtx, req.CityName, req.CountryName, req.SavedPlaces); ok {
			return cached, nil
		}
		return s.generate(flightCtx, req, l), nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return types.SuggestionResult{}, err
	}
	result := clonePayload(v.(types.SuggestionResult))

	span.SetAttributes(
		attribute.Bool("suggestions.shared_flight", shared),
		attribute.Int("suggestions.count", len(result.Suggestions)),
	)
	if result.Error != "" {
		span.SetStatus(codes.Error, result.Error)
	} else {
		span.SetStatus(codes.Ok, "generated")
	}
	return result, nil
}

func (s *ServiceImpl) generate(ctx context.Context, req types.SuggestionRequest, l *slog.Logger) types.SuggestionResult {
	maxSuggestions := req.MaxSuggestions
	if maxSuggestions <= 0 || maxSuggestions > s.maxSuggestions*4 {
		maxSuggestions = s.maxSuggestions
	}

	result := types.SuggestionResult{
		Suggestions:   []types.Suggestion{},
		CityName:      req.CityName,
		CountryName:   req.CountryName,
		GeneratedAt:   s.now().UTC(),
		BasedOnPlaces: savedNames(req.SavedPlaces),
	}

	temp := float32(suggestTemperature)
	res := s.gateway.Invoke(ctx, []types.Message{
		{Role: types.RoleSystem, Content: suggestionsSystemPrompt},
		{Role: types.RoleUser, Content: buildUserPrompt(req, maxSuggestions)},
	}, llmInteraction.InvokeOptions{
		Temperature: &temp,
		MaxTokens:   suggestMaxTokens,
		Purpose:     purposeSuggest,
	})
	result.ModelID = res.ModelID
	if res.Error != "" {
		l.WarnContext(ctx, "Gateway failed to generate suggestions", slog.String("error", res.Error))
		result.Error = res.Error
		return result
	}

	suggestions, err := parseSuggestions(res.Content, maxSuggestions, req.ExcludeCategories, req.SavedPlaces)
	if err != nil {
		l.WarnContext(ctx, "Could not parse suggestions answer", slog.Any("error", err), slog.String("model", res.ModelID))
		result.Error = err.Error()
		return result
	}
	if len(suggestions) == 0 {
		l.WarnContext(ctx, "Model answer held no usable suggestions", slog.String("model", res.ModelID))
		result.Error = "no valid suggestions in AI response"
		return result
	}

	result.Suggestions = suggestions
	s.cache.Put(ctx, req.CityName, req.CountryName, req.SavedPlaces, result)
	l.InfoContext(ctx, "Generated suggestions", slog.Int("count", len(suggestions)), slog.String("model", res.ModelID))
	return result
}

func (s *ServiceImpl) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
	s.logger.InfoContext(ctx, "Suggestion cache cleared")
}

func (s *ServiceImpl) ClearCity(ctx context.Context, city, country string) bool {
	return s.cache.ClearCity(ctx, city, country)
}

func savedNames(places []types.SavedPlaceContext) []string {
	names := make([]string, 0, len(places))
	for _, p := range places {
		names = append(names, p.Name)
	}
	return names
}
