// Package mock is an offline provider for tests and development. It plays
// back a script of responses, so planning flows can be exercised without an
// API key.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

type Provider struct {
	mu     sync.Mutex
	script []llm.ProviderResponse
	next   int
}

// New returns a provider that echoes the last message.
func New() *Provider {
	return &Provider{}
}

// NewScripted returns a provider that plays the given responses in order,
// then falls back to echoing.
func NewScripted(script ...llm.ProviderResponse) *Provider {
	return &Provider{script: script}
}

// Reply is a convenience for a text-only scripted response.
func Reply(content string) llm.ProviderResponse {
	return llm.ProviderResponse{Content: content}
}

// CallTool is a convenience for a scripted tool-call response.
func CallTool(name, argsJSON string) llm.ProviderResponse {
	return llm.ProviderResponse{
		ToolCalls: []types.ToolCall{{
			ID:        types.GenerateCallID(),
			Name:      name,
			Arguments: argsJSON,
		}},
	}
}

func (p *Provider) ID() string {
	return "mock"
}

func (p *Provider) Call(ctx context.Context, req *llm.ProviderRequest) (*llm.ProviderResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var resp llm.ProviderResponse
	if p.next < len(p.script) {
		resp = p.script[p.next]
		p.next++
	} else {
		content := "ok"
		if len(req.Messages) > 0 {
			content = fmt.Sprintf("Mock response to: %s", req.Messages[len(req.Messages)-1].Content)
		}
		resp = llm.ProviderResponse{Content: content}
	}

	resp.ID = fmt.Sprintf("mock-%d", time.Now().UnixNano())
	resp.Model = "mock-model"
	return &resp, nil
}

func (p *Provider) CallStream(ctx context.Context, req *llm.ProviderRequest) (<-chan llm.StreamChunk, error) {
	resp, err := p.Call(ctx, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan llm.StreamChunk, 2)
	if resp.Content != "" {
		ch <- llm.StreamChunk{Content: resp.Content}
	}
	if len(resp.ToolCalls) > 0 {
		ch <- llm.StreamChunk{ToolCalls: resp.ToolCalls}
	}
	close(ch)
	return ch, nil
}
