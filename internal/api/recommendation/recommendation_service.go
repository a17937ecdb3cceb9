package recommendation

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	llmInteraction "github.com/FACorreiaa/travelist-ai/internal/api/llm_interaction"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	extractTemperature  = 0.1
	structuredMaxTokens = 1000
	sharedTextMaxTokens = 900
	purposeExtract      = "extract"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service turns unstructured recommendation text into candidate places.
type Service interface {
	// Extract never returns a Go error; failures are reported in the result.
	Extract(ctx context.Context, text string, extractCtx *types.ExtractionContext) types.ExtractionResult
}

type ServiceImpl struct {
	gateway llmInteraction.Gateway
	logger  *slog.Logger
}

func NewServiceImpl(gateway llmInteraction.Gateway, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{gateway: gateway, logger: logger}
}

// SelectMode picks the instruction profile for the input.
func SelectMode(text string, extractCtx *types.ExtractionContext) Mode {
	if extractCtx.HasLocation() {
		return ModeStructured
	}
	if urlPattern.MatchString(text) {
		return ModeLink
	}
	return ModeFreeform
}

func (s *ServiceImpl) Extract(ctx context.Context, text string, extractCtx *types.ExtractionContext) types.ExtractionResult {
	mode := SelectMode(text, extractCtx)
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Extract", trace.WithAttributes(
		attribute.String("extract.mode", string(mode)),
		attribute.Int("extract.text_length", len(text)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Extract"), slog.String("mode", string(mode)))

	if strings.TrimSpace(text) == "" {
		span.SetStatus(codes.Error, "empty input")
		return types.ExtractionResult{Places: []types.CandidatePlace{}, Error: "text is required"}
	}

	var city, country string
	if extractCtx != nil {
		city, country = strings.TrimSpace(extractCtx.City), strings.TrimSpace(extractCtx.Country)
	}
	messages := []types.Message{
		{Role: types.RoleSystem, Content: systemPrompt(mode)},
		{Role: types.RoleUser, Content: userPrompt(mode, text, city, country)},
	}
	maxTokens := structuredMaxTokens
	if mode != ModeStructured {
		maxTokens = sharedTextMaxTokens
	}
	temp := float32(extractTemperature)

	res := s.gateway.Invoke(ctx, messages, llmInteraction.InvokeOptions{
		Temperature: &temp,
		MaxTokens:   maxTokens,
		Purpose:     purposeExtract,
		Grounding:   true,
	})
	if res.Error != "" {
		l.WarnContext(ctx, "Gateway failed to extract places", slog.String("error", res.Error))
		span.SetStatus(codes.Error, res.Error)
		return types.ExtractionResult{Places: []types.CandidatePlace{}, Error: res.Error, ModelID: res.ModelID}
	}

	places, err := parsePlaces(res.Content, text)
	if err != nil {
		l.WarnContext(ctx, "Could not parse extraction answer", slog.Any("error", err), slog.String("model", res.ModelID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return types.ExtractionResult{Places: []types.CandidatePlace{}, Error: err.Error(), ModelID: res.ModelID}
	}

	// structured mode already knows the location; fill gaps from it
	if mode == ModeStructured {
		for i := range places {
			if places[i].City == "" {
				places[i].City = city
			}
			if places[i].Country == "" {
				places[i].Country = country
			}
		}
	}
	if extractCtx != nil && extractCtx.SourceType != "" {
		st := types.ParseSourceType(string(extractCtx.SourceType))
		for i := range places {
			if places[i].Source == nil {
				places[i].Source = &types.SourceAttribution{Type: st, DisplayName: st.DisplayName()}
			}
		}
	}

	l.InfoContext(ctx, "Extracted places", slog.Int("count", len(places)), slog.String("model", res.ModelID))
	span.SetAttributes(attribute.Int("extract.places", len(places)), attribute.String("llm.model_id", res.ModelID))
	span.SetStatus(codes.Ok, "extracted")
	return types.ExtractionResult{Places: places, ModelID: res.ModelID, GroundingSources: res.GroundingSources}
}
