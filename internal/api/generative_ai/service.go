package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

var _ CompletionClient = (*GeminiClient)(nil)

// GeminiClient serves completion requests from the Gemini API.
type GeminiClient struct {
	client *genai.Client
	logger *slog.Logger
}

// NewGeminiClient connects to the Gemini API. An empty baseURL keeps the
// SDK default endpoint.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, logger: logger}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, span := otel.Tracer("GeminiClient").Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.messages", len(req.Messages)),
		attribute.Bool("llm.reasoning", req.ReasoningEnabled),
		attribute.Bool("llm.grounding", req.Grounding),
	))
	defer span.End()

	contents, system := toGenaiContents(req.Messages)
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.ReasoningEnabled {
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	}
	if req.Grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		c.logger.WarnContext(ctx, "Gemini request failed",
			slog.String("model", req.Model),
			slog.Any("error", err))
		return nil, fmt.Errorf("generate content with %s: %w", req.Model, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		err = errors.New("no message in API response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "no candidates")
		return nil, err
	}

	var answer, thoughts strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughts.WriteString(part.Text)
		} else {
			answer.WriteString(part.Text)
		}
	}

	content, inlineTrace := SplitReasoning(answer.String())
	reasoning := strings.TrimSpace(thoughts.String())
	if reasoning == "" {
		reasoning = inlineTrace
	}

	model := resp.ModelVersion
	if model == "" {
		model = req.Model
	}

	out := &CompletionResponse{
		Content:        content,
		Model:          model,
		ReasoningTrace: reasoning,
	}
	out.GroundingSources = groundingSources(resp.Candidates[0].GroundingMetadata)
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	span.SetAttributes(attribute.String("llm.response_model", model))
	span.SetStatus(codes.Ok, "completed")
	return out, nil
}

// groundingSources lists the distinct web URIs the answer was grounded on.
func groundingSources(meta *genai.GroundingMetadata) []string {
	if meta == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{}, len(meta.GroundingChunks))
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, dup := seen[chunk.Web.URI]; dup {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		out = append(out, chunk.Web.URI)
	}
	return out
}

// toGenaiContents folds system turns into one instruction; Gemini has no
// system role in the conversation itself.
func toGenaiContents(messages []types.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			system = append(system, m.Content)
		case types.RoleAssistant:
			text := m.Content
			if text == "" {
				text = m.ReasoningTrace
			}
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
