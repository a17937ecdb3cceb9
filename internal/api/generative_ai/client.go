package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/FACorreiaa/travelist-ai/config"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

// CompletionRequest is a single chat completion call against one model.
type CompletionRequest struct {
	Model            string
	Messages         []types.Message
	Temperature      float32
	MaxTokens        int
	ReasoningEnabled bool
	// Grounding asks the backend to verify the answer with web search when
	// it supports it.
	Grounding bool
}

// CompletionResponse carries the answer text and, for reasoning models, the
// trace that produced it. Model is the model the service reports, which may
// differ from the requested one.
type CompletionResponse struct {
	Content          string
	Model            string
	ReasoningTrace   string
	PromptTokens     int
	CompletionTokens int
	GroundingSources []string
}

// CompletionClient is the boundary to a hosted completion service.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Provider() string
}

// NewCompletionClient builds the backend selected in config. A missing API key
// yields types.ErrMissingCredential so callers can surface it before any call.
func NewCompletionClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (CompletionClient, error) {
	if cfg.Provider == config.ProviderMock {
		return NewMockClient(logger), nil
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, types.ErrMissingCredential
	}

	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, "", httpClient, logger)
	case config.ProviderOpenRouter, "":
		return NewOpenRouterClient(cfg.APIKey, cfg.BaseURL, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// headerTransport adds fixed attribution headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			clone.Header.Set(k, v)
		}
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

var thinkBlock = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// SplitReasoning separates inline <think> blocks from the visible answer.
func SplitReasoning(content string) (answer, trace string) {
	matches := thinkBlock.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(content), ""
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	answer = strings.TrimSpace(thinkBlock.ReplaceAllString(content, ""))
	return answer, strings.Join(parts, "\n")
}
