package generativeAI

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

type geminiCapture struct {
	Path string
	Body map[string]any
}

func geminiServer(t *testing.T, body string, seen *geminiCapture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen.Path = r.URL.Path
		require.NoError(t, json.Unmarshal(raw, &seen.Body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

const groundedAnswer = `{
	"candidates":[{
		"content":{"role":"model","parts":[
			{"text":"checking opening hours","thought":true},
			{"text":"Café Central is a grand Viennese coffee house."}
		]},
		"groundingMetadata":{"groundingChunks":[
			{"web":{"uri":"https://example.com/cafe-central","title":"Cafe Central"}},
			{"web":{"uri":"https://example.com/vienna"}},
			{"web":{"uri":"https://example.com/cafe-central"}},
			{"retrievedContext":{}}
		]}
	}],
	"modelVersion":"gemini-2.5-flash-001",
	"usageMetadata":{"promptTokenCount":21,"candidatesTokenCount":9}
}`

func TestGeminiClient_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer returns sources", func(t *testing.T) {
		var seen geminiCapture
		srv := geminiServer(t, groundedAnswer, &seen)
		defer srv.Close()

		c, err := NewGeminiClient(ctx, "test-key", srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		resp, err := c.Complete(ctx, CompletionRequest{
			Model: "gemini-2.5-flash",
			Messages: []types.Message{
				{Role: types.RoleSystem, Content: "Describe places."},
				{Role: types.RoleUser, Content: "Café Central in Vienna"},
			},
			Temperature:      0.3,
			MaxTokens:        500,
			ReasoningEnabled: true,
			Grounding:        true,
		})
		require.NoError(t, err)

		assert.Equal(t, "Café Central is a grand Viennese coffee house.", resp.Content)
		assert.Equal(t, "checking opening hours", resp.ReasoningTrace)
		assert.Equal(t, "gemini-2.5-flash-001", resp.Model)
		assert.Equal(t, []string{"https://example.com/cafe-central", "https://example.com/vienna"}, resp.GroundingSources)
		assert.Equal(t, 21, resp.PromptTokens)
		assert.Equal(t, 9, resp.CompletionTokens)

		assert.True(t, strings.HasSuffix(seen.Path, "models/gemini-2.5-flash:generateContent"), seen.Path)
		tools, ok := seen.Body["tools"].([]any)
		require.True(t, ok, "tools sent")
		require.Len(t, tools, 1)
		assert.Contains(t, tools[0], "googleSearch")
		assert.Contains(t, seen.Body, "systemInstruction")
	})

	t.Run("no tools without grounding", func(t *testing.T) {
		var seen geminiCapture
		srv := geminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`, &seen)
		defer srv.Close()

		c, err := NewGeminiClient(ctx, "test-key", srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		resp, err := c.Complete(ctx, CompletionRequest{
			Model:    "gemini-2.5-flash",
			Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, "gemini-2.5-flash", resp.Model)
		assert.Empty(t, resp.GroundingSources)
		assert.NotContains(t, seen.Body, "tools")
	})

	t.Run("empty candidates", func(t *testing.T) {
		var seen geminiCapture
		srv := geminiServer(t, `{"candidates":[]}`, &seen)
		defer srv.Close()

		c, err := NewGeminiClient(ctx, "test-key", srv.URL, srv.Client(), testLogger())
		require.NoError(t, err)

		_, err = c.Complete(ctx, CompletionRequest{Model: "m", Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}}})
		assert.ErrorContains(t, err, "no message")
	})
}
