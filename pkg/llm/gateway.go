package llm

import (
	"context"

	"github.com/px4-agent-org/px4-agent/pkg/config"
)

// Gateway applies provider options (token limits, temperature) on top of a
// Provider so callers pass only the conversation.
type Gateway struct {
	provider Provider
	options  config.ProviderOptions
}

func NewGateway(provider Provider, opts config.ProviderOptions) *Gateway {
	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	return &Gateway{
		provider: provider,
		options:  opts,
	}
}

func (g *Gateway) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	resp, err := g.provider.Call(ctx, g.providerRequest(req))
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Model:     resp.Model,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
		Usage:     resp.Usage,
	}, nil
}

func (g *Gateway) StreamChat(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	return g.provider.CallStream(ctx, g.providerRequest(req))
}

func (g *Gateway) providerRequest(req *ChatRequest) *ProviderRequest {
	return &ProviderRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Tools:       req.Tools,
		MaxTokens:   g.options.MaxTokens,
		Temperature: g.options.Temperature,
	}
}
