//go:build integration

package generativeAI

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

func TestGeminiClient_Complete_Integration(t *testing.T) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GOOGLE_GEMINI_API_KEY not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := NewGeminiClient(ctx, apiKey, "", nil, testLogger())
	require.NoError(t, err)

	t.Run("plain answer", func(t *testing.T) {
		resp, err := client.Complete(ctx, CompletionRequest{
			Model: "gemini-2.0-flash",
			Messages: []types.Message{
				{Role: types.RoleSystem, Content: "Answer with a single word."},
				{Role: types.RoleUser, Content: "What is the capital of Portugal?"},
			},
			Temperature: 0.1,
			MaxTokens:   50,
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Content, "Lisbon")
		assert.NotEmpty(t, resp.Model)
	})

	t.Run("reasoning enabled", func(t *testing.T) {
		resp, err := client.Complete(ctx, CompletionRequest{
			Model:            "gemini-2.5-flash",
			Messages:         []types.Message{{Role: types.RoleUser, Content: "Reply with the JSON array [1,2,3] and nothing else."}},
			Temperature:      0.1,
			MaxTokens:        1000,
			ReasoningEnabled: true,
		})
		require.NoError(t, err)
		assert.Contains(t, resp.Content, "[1")
	})
}

func TestOpenRouterClient_Complete_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENROUTER_API_KEY not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	client := NewOpenRouterClient(apiKey, "", nil, testLogger())
	resp, err := client.Complete(ctx, CompletionRequest{
		Model:       "openai/gpt-oss-120b:free",
		Messages:    []types.Message{{Role: types.RoleUser, Content: "Say OK."}},
		Temperature: 0.1,
		MaxTokens:   200,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)
}
