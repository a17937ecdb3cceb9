package llmInteraction

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/FACorreiaa/travelist-ai/internal/api/generative_ai"
	"github.com/FACorreiaa/travelist-ai/internal/types"
)

const (
	primaryModel  = "vendor/primary"
	fallbackModel = "vendor/fallback"
)

// MockCompletionClient is a mock implementation of generativeAI.CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req generativeAI.CompletionRequest) (*generativeAI.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generativeAI.CompletionResponse), args.Error(1)
}

func (m *MockCompletionClient) Provider() string { return "mock" }

// MockInteractionRepo is a mock implementation of LLmInteractionRepository
type MockInteractionRepo struct {
	mock.Mock
}

func (m *MockInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func setupGateway(t *testing.T) (*GatewayImpl, *MockCompletionClient, *MockInteractionRepo) {
	t.Helper()
	client := new(MockCompletionClient)
	repo := new(MockInteractionRepo)
	repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil).Maybe()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewGateway(client, repo, primaryModel, fallbackModel, logger), client, repo
}

func forModel(model string, reasoning bool) interface{} {
	return mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		return req.Model == model && req.ReasoningEnabled == reasoning
	})
}

func refinement() interface{} {
	return mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		if req.Model != fallbackModel || len(req.Messages) < 2 {
			return false
		}
		last := req.Messages[len(req.Messages)-1]
		return last.Role == types.RoleUser && last.Content == refinementPrompt
	})
}

func firstCall() interface{} {
	return mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
		if req.Model != fallbackModel {
			return false
		}
		last := req.Messages[len(req.Messages)-1]
		return last.Content != refinementPrompt
	})
}

var userTurn = []types.Message{
	{Role: types.RoleSystem, Content: "Return a JSON array."},
	{Role: types.RoleUser, Content: "Try Tartine in SF"},
}

func TestGateway_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("primary answers", func(t *testing.T) {
		g, client, repo := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{Content: `[{"name":"Tartine"}]`, Model: "vendor/primary-2025"}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{Purpose: "extract"})

		assert.Empty(t, res.Error)
		assert.Equal(t, `[{"name":"Tartine"}]`, res.Content)
		assert.Equal(t, "vendor/primary-2025", res.ModelID)
		client.AssertNumberOfCalls(t, "Complete", 1)
		repo.AssertCalled(t, "SaveInteraction", mock.Anything, mock.MatchedBy(func(it types.LlmInteraction) bool {
			return it.Purpose == "extract" && it.FallbackPhase == types.PhasePrimary && it.TotalTokens > 0
		}))
	})

	t.Run("grounding is requested and sources returned", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
			return req.Model == primaryModel && req.Grounding
		})).Return(&generativeAI.CompletionResponse{
			Content:          "A grand coffee house.",
			GroundingSources: []string{"https://example.com/a"},
		}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{Grounding: true})
		assert.Equal(t, "A grand coffee house.", res.Content)
		assert.Equal(t, []string{"https://example.com/a"}, res.GroundingSources)
	})

	t.Run("defaults are applied", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
			return req.Temperature == float32(DefaultTemperature) && req.MaxTokens == DefaultMaxTokens
		})).Return(&generativeAI.CompletionResponse{Content: "ok", Model: primaryModel}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Equal(t, "ok", res.Content)
	})

	t.Run("options override defaults", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		temp := float32(0.7)
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
			return req.Temperature == temp && req.MaxTokens == 2000
		})).Return(&generativeAI.CompletionResponse{Content: "ok"}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{Temperature: &temp, MaxTokens: 2000})
		assert.Equal(t, "ok", res.Content)
		assert.Equal(t, primaryModel, res.ModelID, "requested model when the service reports none")
	})

	t.Run("primary transport error then refinement answers", func(t *testing.T) {
		g, client, repo := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(nil, errors.New("503 service unavailable")).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{Content: "draft", ReasoningTrace: "thinking", Model: fallbackModel}, nil).Once()
		client.On("Complete", mock.Anything, refinement()).
			Return(&generativeAI.CompletionResponse{Content: "final", Model: fallbackModel}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{Purpose: "extract"})

		assert.Empty(t, res.Error)
		assert.Equal(t, "final", res.Content)
		assert.Equal(t, fallbackModel, res.ModelID)
		client.AssertNumberOfCalls(t, "Complete", 3)
		repo.AssertCalled(t, "SaveInteraction", mock.Anything, mock.MatchedBy(func(it types.LlmInteraction) bool {
			return it.FallbackPhase == types.PhaseFallbackRefinement
		}))
	})

	t.Run("refinement carries the phase 1 turn", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{Content: "   "}, nil).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{Content: "draft", ReasoningTrace: "trace"}, nil).Once()
		client.On("Complete", mock.Anything, mock.MatchedBy(func(req generativeAI.CompletionRequest) bool {
			n := len(req.Messages)
			if n != len(userTurn)+2 || !req.ReasoningEnabled {
				return false
			}
			asst := req.Messages[n-2]
			return asst.Role == types.RoleAssistant && asst.Content == "draft" && asst.ReasoningTrace == "trace" &&
				req.Messages[0] == userTurn[0] && req.Messages[1] == userTurn[1]
		})).Return(&generativeAI.CompletionResponse{Content: "final"}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Equal(t, "final", res.Content)
		client.AssertExpectations(t)
	})

	t.Run("empty refinement falls back to phase 1 content", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{Content: ""}, nil).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{Content: "draft", Model: "vendor/fallback-1"}, nil).Once()
		client.On("Complete", mock.Anything, refinement()).
			Return(&generativeAI.CompletionResponse{Content: ""}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Empty(t, res.Error)
		assert.Equal(t, "draft", res.Content)
		assert.Equal(t, "vendor/fallback-1", res.ModelID)
	})

	t.Run("refinement transport error falls back to phase 1 content", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(nil, errors.New("timeout")).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{Content: "draft"}, nil).Once()
		client.On("Complete", mock.Anything, refinement()).
			Return(nil, errors.New("timeout")).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Equal(t, "draft", res.Content)
		assert.Equal(t, fallbackModel, res.ModelID)
	})

	t.Run("trace only phase 1 still refines", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{}, nil).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{ReasoningTrace: "only thoughts"}, nil).Once()
		client.On("Complete", mock.Anything, refinement()).
			Return(&generativeAI.CompletionResponse{Content: "answer"}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Equal(t, "answer", res.Content)
	})

	t.Run("phase 1 empty is failure without refinement", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{}, nil).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.True(t, res.Failed())
		assert.Contains(t, res.Error, "no content or reasoning")
		assert.Equal(t, fallbackModel, res.ModelID)
		client.AssertNumberOfCalls(t, "Complete", 2)
	})

	t.Run("all tiers fail reports the fallback error", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(nil, errors.New("primary down")).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(nil, errors.New("fallback down")).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Empty(t, res.Content)
		assert.Contains(t, res.Error, "fallback down")
	})

	t.Run("both fallback phases empty", func(t *testing.T) {
		g, client, _ := setupGateway(t)
		client.On("Complete", mock.Anything, forModel(primaryModel, false)).
			Return(&generativeAI.CompletionResponse{}, nil).Once()
		client.On("Complete", mock.Anything, firstCall()).
			Return(&generativeAI.CompletionResponse{ReasoningTrace: "hmm"}, nil).Once()
		client.On("Complete", mock.Anything, refinement()).
			Return(&generativeAI.CompletionResponse{}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.True(t, res.Failed())
		assert.Contains(t, res.Error, "phase 2 returned no content")
	})

	t.Run("repository errors do not fail the call", func(t *testing.T) {
		client := new(MockCompletionClient)
		repo := new(MockInteractionRepo)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
		g := NewGateway(client, repo, primaryModel, fallbackModel, slog.New(slog.NewTextHandler(os.Stdout, nil)))
		client.On("Complete", mock.Anything, mock.Anything).Return(&generativeAI.CompletionResponse{Content: "ok"}, nil).Once()

		res := g.Invoke(ctx, userTurn, InvokeOptions{})
		assert.Equal(t, "ok", res.Content)
		repo.AssertExpectations(t)
	})
}

func TestGateway_AttemptTimeout(t *testing.T) {
	g, client, _ := setupGateway(t)
	g.WithAttemptTimeout(50 * time.Millisecond)

	client.On("Complete", mock.Anything, forModel(primaryModel, false)).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()
	client.On("Complete", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), firstCall()).
		Return(&generativeAI.CompletionResponse{Content: "draft", ReasoningTrace: "thinking"}, nil).Once()
	client.On("Complete", mock.Anything, refinement()).
		Return(&generativeAI.CompletionResponse{Content: "final", Model: fallbackModel}, nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	res := g.Invoke(ctx, userTurn, InvokeOptions{})

	assert.Empty(t, res.Error)
	assert.Equal(t, "final", res.Content)
	assert.Equal(t, fallbackModel, res.ModelID)
	assert.Less(t, time.Since(start), 2*time.Second)
	client.AssertExpectations(t)
}

func TestGateway_MissingCredential(t *testing.T) {
	g := NewGateway(nil, nil, primaryModel, fallbackModel, slog.New(slog.NewTextHandler(os.Stdout, nil)))

	require.ErrorIs(t, g.Ready(), types.ErrMissingCredential)
	res := g.Invoke(context.Background(), userTurn, InvokeOptions{})
	assert.Equal(t, types.ErrMissingCredential.Error(), res.Error)
	assert.Empty(t, res.Content)
}
