// Package llm abstracts the reasoning model behind a provider interface so
// the planning loop is identical across OpenAI-compatible APIs, Gemini and
// the offline mock.
package llm

import (
	"context"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Provider is one model backend.
type Provider interface {
	// ID returns the provider identifier, e.g. "openai"
	ID() string

	// Call executes a synchronous chat request
	Call(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error)

	// CallStream executes a streaming chat request returning chunks
	CallStream(ctx context.Context, req *ProviderRequest) (<-chan StreamChunk, error)
}

type StreamChunk struct {
	Content   string
	ToolCalls []types.ToolCall
}

type ChatRequest struct {
	Model    string
	Messages []types.Message
	Tools    []types.Tool
}

type ChatResponse struct {
	Model     string
	Content   string
	ToolCalls []types.ToolCall
	Usage     types.Usage
}

type ProviderRequest struct {
	Model       string
	Messages    []types.Message
	Tools       []types.Tool
	MaxTokens   int
	Temperature float64
}

type ProviderResponse struct {
	ID        string
	Model     string
	Content   string
	ToolCalls []types.ToolCall
	Usage     types.Usage
}
