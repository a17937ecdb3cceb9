package types

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a completion conversation.
type Message struct {
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	ReasoningTrace string `json:"reasoningTrace,omitempty"`
}

// ModelInvocationResult is what the gateway hands back. Content is only
// meaningful when Error is empty.
type ModelInvocationResult struct {
	Content string `json:"content"`
	ModelID string `json:"modelId"`
	Error   string `json:"error,omitempty"`
	// GroundingSources are the web pages a grounded answer was checked against.
	GroundingSources []string `json:"groundingSources,omitempty"`
}

func (r ModelInvocationResult) Failed() bool {
	return r.Error != "" || r.Content == ""
}

// FallbackPhase records which tier of the gateway answered.
type FallbackPhase int

const (
	PhasePrimary FallbackPhase = iota
	PhaseFallbackReasoning
	PhaseFallbackRefinement
)

func (p FallbackPhase) String() string {
	switch p {
	case PhaseFallbackReasoning:
		return "fallback_phase1"
	case PhaseFallbackRefinement:
		return "fallback_phase2"
	default:
		return "primary"
	}
}

func (p FallbackPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type LlmInteraction struct {
	ID               uuid.UUID     `json:"id"`
	Purpose          string        `json:"purpose"`
	Prompt           string        `json:"prompt"`
	ResponseText     string        `json:"response_text"`
	ModelUsed        string        `json:"model_used"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens"`
	LatencyMs        int           `json:"latency_ms"`
	FallbackPhase    FallbackPhase `json:"fallback_phase"`
	Error            string        `json:"error,omitempty"`
}
