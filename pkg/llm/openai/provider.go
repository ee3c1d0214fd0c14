// Package openai adapts any OpenAI-compatible chat completion API to the
// provider interface.
package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

type Provider struct {
	client *openai.Client
	config Config
}

type Config struct {
	APIKey  string
	BaseURL string
}

func New(cfg Config) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

func (p *Provider) ID() string {
	return "openai"
}

func (p *Provider) Call(ctx context.Context, req *llm.ProviderRequest) (*llm.ProviderResponse, error) {
	msgs, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("convert messages: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Tools:       convertTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	choice := resp.Choices[0]
	return &llm.ProviderResponse{
		ID:        resp.ID,
		Model:     resp.Model,
		Content:   choice.Message.Content,
		Usage:     convertUsage(resp.Usage),
		ToolCalls: convertToolCalls(choice.Message.ToolCalls),
	}, nil
}

func (p *Provider) CallStream(ctx context.Context, req *llm.ProviderRequest) (<-chan llm.StreamChunk, error) {
	msgs, err := convertMessages(req.Messages)
	if err != nil {
		return nil, fmt.Errorf("convert messages: %w", err)
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Tools:       convertTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		defer stream.Close()

		// Tool calls arrive fragmented across deltas; assemble by index.
		toolCallBuilder := make(map[int]*types.ToolCall)

		for {
			resp, err := stream.Recv()
			if err != nil {
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}

			delta := resp.Choices[0].Delta
			if delta.Content != "" {
				ch <- llm.StreamChunk{Content: delta.Content}
			}

			for _, tc := range delta.ToolCalls {
				idx := tc.Index
				if idx == nil {
					continue
				}
				if _, ok := toolCallBuilder[*idx]; !ok {
					toolCallBuilder[*idx] = &types.ToolCall{
						ID:   tc.ID,
						Name: tc.Function.Name,
					}
				}
				toolCallBuilder[*idx].Arguments += tc.Function.Arguments
				if tc.ID != "" {
					toolCallBuilder[*idx].ID = tc.ID
				}
				if tc.Function.Name != "" {
					toolCallBuilder[*idx].Name = tc.Function.Name
				}
			}

			if resp.Choices[0].FinishReason != "" {
				if len(toolCallBuilder) > 0 {
					var toolCalls []types.ToolCall
					for _, tc := range toolCallBuilder {
						toolCalls = append(toolCalls, *tc)
					}
					ch <- llm.StreamChunk{ToolCalls: toolCalls}
				}
				return
			}
		}
	}()

	return ch, nil
}

// Helpers

func convertMessages(msgs []types.Message) ([]openai.ChatCompletionMessage, error) {
	var result []openai.ChatCompletionMessage
	for _, m := range msgs {
		// Content carries `omitempty` in the SDK and some compatible
		// backends reject a missing field, so never send empty.
		content := m.Content
		if content == "" {
			content = " "
		}

		msg := openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: content,
		}
		if m.Role == "tool" {
			msg.ToolCallID = m.ToolCallID
		}
		if len(m.ToolCalls) > 0 {
			msg.ToolCalls = make([]openai.ToolCall, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				msg.ToolCalls[i] = openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
		}
		result = append(result, msg)
	}
	return result, nil
}

func convertTools(tools []types.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return result
}

func convertUsage(u openai.Usage) types.Usage {
	return types.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func convertToolCalls(calls []openai.ToolCall) []types.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]types.ToolCall, len(calls))
	for i, c := range calls {
		result[i] = types.ToolCall{
			ID:        c.ID,
			Name:      c.Function.Name,
			Arguments: c.Function.Arguments,
		}
	}
	return result
}
