package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

var _ CompletionClient = (*OpenRouterClient)(nil)

// OpenRouterClient talks to any OpenAI compatible chat completions endpoint.
type OpenRouterClient struct {
	client *openai.Client
	logger *slog.Logger
}

func NewOpenRouterClient(apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger) *OpenRouterClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultOpenRouterURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenRouterClient{
		client: openai.NewClientWithConfig(cfg),
		logger: logger,
	}
}

func (c *OpenRouterClient) Provider() string { return "openrouter" }

func (c *OpenRouterClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, span := otel.Tracer("OpenRouterClient").Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.messages", len(req.Messages)),
		attribute.Bool("llm.reasoning", req.ReasoningEnabled),
	))
	defer span.End()

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.ReasoningEnabled {
		chatReq.ReasoningEffort = "medium"
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.Int("http.status_code", apiErr.HTTPStatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		c.logger.WarnContext(ctx, "Chat completion request failed",
			slog.String("model", req.Model),
			slog.Any("error", err))
		return nil, fmt.Errorf("chat completion with %s: %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		err = errors.New("no message in API response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "no choices")
		return nil, err
	}

	msg := resp.Choices[0].Message
	content, inlineTrace := SplitReasoning(msg.Content)
	reasoning := msg.ReasoningContent
	if reasoning == "" {
		reasoning = inlineTrace
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	span.SetAttributes(
		attribute.String("llm.response_model", model),
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	span.SetStatus(codes.Ok, "completed")

	return &CompletionResponse{
		Content:          content,
		Model:            model,
		ReasoningTrace:   reasoning,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func toOpenAIMessages(messages []types.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case types.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case types.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		msg := openai.ChatCompletionMessage{Role: role, Content: m.Content}
		if m.Role == types.RoleAssistant {
			msg.ReasoningContent = m.ReasoningTrace
		}
		out = append(out, msg)
	}
	return out
}
