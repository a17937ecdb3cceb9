package llmInteraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/travelist-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	DefaultTemperature    = 0.1
	DefaultMaxTokens      = 1000
	DefaultAttemptTimeout = 25 * time.Second

	refinementPrompt = "Are you sure? Think carefully and provide the final result in the requested format."
)

// InvokeOptions tunes a single gateway call. Zero values pick the defaults.
type InvokeOptions struct {
	Temperature *float32
	MaxTokens   int
	// Purpose labels the call in logs, traces, metrics and the interaction log.
	Purpose string
	// Grounding turns on web search verification where the backend has it.
	Grounding bool
}

// Gateway is the only path from the application to the completion service.
type Gateway interface {
	// Invoke never returns a Go error for ordinary failure; it is reported
	// through ModelInvocationResult.Error.
	Invoke(ctx context.Context, messages []types.Message, opts InvokeOptions) types.ModelInvocationResult
	// Ready returns types.ErrMissingCredential when no backend is configured.
	Ready() error
}

var _ Gateway = (*GatewayImpl)(nil)

// GatewayImpl runs the primary model and, when it yields nothing usable, the
// two phase reasoning fallback on the secondary model.
type GatewayImpl struct {
	client        generativeAI.CompletionClient
	repo          LLmInteractionRepository
	primaryModel  string
	fallbackModel string
	// attemptTimeout bounds each model call so a hung primary leaves room
	// for both fallback phases.
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// NewGateway accepts a nil client; every Invoke then fails with the missing
// credential error without touching the network.
func NewGateway(client generativeAI.CompletionClient, repo LLmInteractionRepository, primaryModel, fallbackModel string, logger *slog.Logger) *GatewayImpl {
	return &GatewayImpl{
		client:         client,
		repo:           repo,
		primaryModel:   primaryModel,
		fallbackModel:  fallbackModel,
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger,
	}
}

// WithAttemptTimeout overrides the per attempt budget. Non positive values
// leave attempts bounded only by the caller's context.
func (g *GatewayImpl) WithAttemptTimeout(d time.Duration) *GatewayImpl {
	g.attemptTimeout = d
	return g
}

func (g *GatewayImpl) Ready() error {
	if g.client == nil {
		return types.ErrMissingCredential
	}
	return nil
}

type attemptResult struct {
	resp  *generativeAI.CompletionResponse
	err   error
	model string
}

func (a attemptResult) content() string {
	if a.resp == nil {
		return ""
	}
	return strings.TrimSpace(a.resp.Content)
}

func (a attemptResult) trace() string {
	if a.resp == nil {
		return ""
	}
	return a.resp.ReasoningTrace
}

// modelID is the model the service reported, else the one requested.
func (a attemptResult) modelID() string {
	if a.resp != nil && a.resp.Model != "" {
		return a.resp.Model
	}
	return a.model
}

func (g *GatewayImpl) Invoke(ctx context.Context, messages []types.Message, opts InvokeOptions) types.ModelInvocationResult {
	purpose := opts.Purpose
	if purpose == "" {
		purpose = "generic"
	}
	ctx, span := otel.Tracer("ModelGateway").Start(ctx, "Invoke", trace.WithAttributes(
		attribute.String("llm.purpose", purpose),
		attribute.String("llm.primary_model", g.primaryModel),
		attribute.String("llm.fallback_model", g.fallbackModel),
	))
	defer span.End()

	start := time.Now()
	m := metrics.Get()

	if err := g.Ready(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing credential")
		g.logger.ErrorContext(ctx, "Completion service is not configured", slog.String("purpose", purpose))
		m.LLMInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("purpose", purpose), attribute.String("outcome", "unconfigured")))
		return types.ModelInvocationResult{Error: err.Error()}
	}

	req := generativeAI.CompletionRequest{
		Messages:    messages,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Grounding:   opts.Grounding,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	result, phase, final := g.run(ctx, req, purpose)
	if final != nil && result.Error == "" {
		result.GroundingSources = final.GroundingSources
	}

	outcome := "success"
	if result.Error != "" {
		outcome = "failure"
		span.RecordError(errors.New(result.Error))
		span.SetStatus(codes.Error, "all model tiers failed")
	} else {
		span.SetStatus(codes.Ok, "completed")
	}
	span.SetAttributes(
		attribute.String("llm.model_id", result.ModelID),
		attribute.String("llm.phase", phase.String()),
	)

	elapsed := time.Since(start)
	m.LLMInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purpose", purpose), attribute.String("outcome", outcome)))
	m.LLMInvocationDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("purpose", purpose)))

	g.record(ctx, purpose, messages, result, phase, final, elapsed)
	return result
}

// run executes the tier protocol. It returns the result, the phase that
// produced it and the raw response of that phase for accounting.
func (g *GatewayImpl) run(ctx context.Context, req generativeAI.CompletionRequest, purpose string) (types.ModelInvocationResult, types.FallbackPhase, *generativeAI.CompletionResponse) {
	m := metrics.Get()

	primary := g.attempt(ctx, g.primaryModel, req, types.PhasePrimary)
	if c := primary.content(); c != "" {
		return types.ModelInvocationResult{Content: c, ModelID: primary.modelID()}, types.PhasePrimary, primary.resp
	}
	if primary.err == nil {
		g.logger.WarnContext(ctx, "Primary model returned empty content, falling back",
			slog.String("purpose", purpose), slog.String("model", g.primaryModel))
	}

	m.LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", types.PhaseFallbackReasoning.String())))
	fallbackReq := req
	fallbackReq.ReasoningEnabled = true
	phase1 := g.attempt(ctx, g.fallbackModel, fallbackReq, types.PhaseFallbackReasoning)
	if phase1.err != nil {
		return failure(g.fallbackModel, phase1.err), types.PhaseFallbackReasoning, nil
	}
	if phase1.content() == "" && phase1.trace() == "" {
		return failure(g.fallbackModel, errors.New("fallback phase 1 returned no content or reasoning")), types.PhaseFallbackReasoning, nil
	}

	m.LLMFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", types.PhaseFallbackRefinement.String())))
	refineReq := fallbackReq
	refineReq.Messages = make([]types.Message, 0, len(req.Messages)+2)
	refineReq.Messages = append(refineReq.Messages, req.Messages...)
	refineReq.Messages = append(refineReq.Messages,
		types.Message{Role: types.RoleAssistant, Content: phase1.content(), ReasoningTrace: phase1.trace()},
		types.Message{Role: types.RoleUser, Content: refinementPrompt},
	)
	phase2 := g.attempt(ctx, g.fallbackModel, refineReq, types.PhaseFallbackRefinement)
	if c := phase2.content(); c != "" {
		return types.ModelInvocationResult{Content: c, ModelID: phase2.modelID()}, types.PhaseFallbackRefinement, phase2.resp
	}
	if c := phase1.content(); c != "" {
		g.logger.WarnContext(ctx, "Refinement produced nothing, keeping phase 1 answer",
			slog.String("purpose", purpose), slog.Any("error", phase2.err))
		return types.ModelInvocationResult{Content: c, ModelID: phase1.modelID()}, types.PhaseFallbackReasoning, phase1.resp
	}

	err := phase2.err
	if err == nil {
		err = errors.New("fallback phase 2 returned no content")
	}
	return failure(g.fallbackModel, err), types.PhaseFallbackRefinement, nil
}

func failure(model string, err error) types.ModelInvocationResult {
	return types.ModelInvocationResult{ModelID: model, Error: err.Error()}
}

func (g *GatewayImpl) attempt(ctx context.Context, model string, req generativeAI.CompletionRequest, phase types.FallbackPhase) attemptResult {
	ctx, span := otel.Tracer("ModelGateway").Start(ctx, "Attempt", trace.WithAttributes(
		attribute.String("llm.model", model),
		attribute.String("llm.phase", phase.String()),
	))
	defer span.End()

	if g.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.attemptTimeout)
		defer cancel()
	}

	req.Model = model
	resp, err := g.client.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt failed")
		g.logger.ErrorContext(ctx, "Model attempt failed",
			slog.String("model", model),
			slog.String("phase", phase.String()),
			slog.Any("error", err))
		return attemptResult{err: fmt.Errorf("%s: %w", phase, err), model: model}
	}
	span.SetStatus(codes.Ok, "attempt completed")
	return attemptResult{resp: resp, model: model}
}

func (g *GatewayImpl) record(ctx context.Context, purpose string, messages []types.Message, result types.ModelInvocationResult,
	phase types.FallbackPhase, final *generativeAI.CompletionResponse, elapsed time.Duration) {
	if g.repo == nil {
		return
	}

	prompt := joinMessages(messages)
	interaction := types.LlmInteraction{
		ID:            uuid.New(),
		Purpose:       purpose,
		Prompt:        prompt,
		ResponseText:  result.Content,
		ModelUsed:     result.ModelID,
		LatencyMs:     int(elapsed.Milliseconds()),
		FallbackPhase: phase,
		Error:         result.Error,
	}
	if final != nil && final.PromptTokens > 0 {
		interaction.PromptTokens = final.PromptTokens
		interaction.CompletionTokens = final.CompletionTokens
	} else {
		interaction.PromptTokens = generativeAI.CountMessageTokens(messages)
		interaction.CompletionTokens = generativeAI.CountTokens(result.Content)
	}
	interaction.TotalTokens = interaction.PromptTokens + interaction.CompletionTokens

	metrics.Get().LLMTokensTotal.Add(ctx, int64(interaction.TotalTokens), metric.WithAttributes(
		attribute.String("purpose", purpose)))

	if err := g.repo.SaveInteraction(ctx, interaction); err != nil {
		g.logger.WarnContext(ctx, "Failed to save llm interaction", slog.Any("error", err))
	}
}

func joinMessages(messages []types.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
