// Package gemini adapts the Google Gemini API (Gemini API or Vertex AI
// backends) to the provider interface.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Config contains Gemini-specific configuration.
type Config struct {
	APIKey    string
	ProjectID string
	Location  string
	Model     string
}

type Provider struct {
	client *genai.Client
	config Config
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.ProjectID != "" && cfg.Location != "" {
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = cfg.ProjectID
		clientConfig.Location = cfg.Location
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Provider{client: client, config: cfg}, nil
}

func (p *Provider) ID() string {
	return "gemini"
}

func (p *Provider) Call(ctx context.Context, req *llm.ProviderRequest) (*llm.ProviderResponse, error) {
	modelName, contents, conf, err := p.prepareCall(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Models.GenerateContent(ctx, modelName, contents, conf)
	if err != nil {
		return nil, err
	}
	return convertResponse(resp, modelName)
}

func (p *Provider) CallStream(ctx context.Context, req *llm.ProviderRequest) (<-chan llm.StreamChunk, error) {
	modelName, contents, conf, err := p.prepareCall(req)
	if err != nil {
		return nil, err
	}

	stream := p.client.Models.GenerateContentStream(ctx, modelName, contents, conf)

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		for chunk, err := range stream {
			if err != nil {
				return
			}
			var toolCalls []types.ToolCall
			for _, part := range chunk.Candidates[0].Content.Parts {
				if part.FunctionCall != nil {
					argsBytes, _ := json.Marshal(part.FunctionCall.Args)
					toolCalls = append(toolCalls, types.ToolCall{
						Name:      part.FunctionCall.Name,
						Arguments: string(argsBytes),
					})
				}
			}
			if text := chunk.Text(); text != "" || len(toolCalls) > 0 {
				ch <- llm.StreamChunk{
					Content:   text,
					ToolCalls: toolCalls,
				}
			}
		}
	}()

	return ch, nil
}

func (p *Provider) prepareCall(req *llm.ProviderRequest) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	// Gemini takes the system prompt out of band.
	var systemInstruction *genai.Content
	var contents []*genai.Content

	for _, m := range req.Messages {
		if m.Role == "system" {
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
			continue
		}
		content, err := convertMessage(m)
		if err != nil {
			return "", nil, nil, err
		}
		contents = append(contents, content)
	}

	conf := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
		SystemInstruction: systemInstruction,
		Tools:             convertTools(req.Tools),
	}

	modelName := req.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return modelName, contents, conf, nil
}

// Helpers

func convertMessage(m types.Message) (*genai.Content, error) {
	role := "user"
	if m.Role == "assistant" {
		role = "model"
	}

	var parts []*genai.Part
	if m.Content != "" && m.Role != "tool" {
		parts = append(parts, &genai.Part{Text: m.Content})
	}

	for _, tc := range m.ToolCalls {
		var args map[string]any
		if tc.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tool arguments for %s: %w", tc.Name, err)
			}
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				Name: tc.Name,
				Args: args,
			},
		})
	}

	if m.Role == "tool" {
		// Gemini wants a JSON object back, not a bare string.
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				Name:     m.ToolName,
				Response: map[string]any{"result": m.Content},
			},
		})
	}

	return &genai.Content{Role: role, Parts: parts}, nil
}

func convertTools(tools []types.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	var fds []*genai.FunctionDeclaration
	for _, t := range tools {
		fds = append(fds, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		})
	}
	if len(fds) == 0 {
		return nil
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

func convertSchema(schema types.JSONSchema) *genai.Schema {
	if schema == nil {
		return nil
	}

	valType, _ := schema["type"].(string)
	s := &genai.Schema{
		Type:        toGenaiType(valType),
		Description: getString(schema, "description"),
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if vMap, ok := v.(map[string]any); ok {
				s.Properties[k] = convertSchema(vMap)
			}
		}
	}
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			if str, ok := r.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}
	if req, ok := schema["required"].([]string); ok {
		s.Required = append(s.Required, req...)
	}
	if enum, ok := schema["enum"].([]string); ok {
		s.Enum = enum
	}

	return s
}

func toGenaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func getString(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

func convertResponse(resp *genai.GenerateContentResponse, model string) (*llm.ProviderResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}
	cand := resp.Candidates[0]

	var content string
	var toolCalls []types.ToolCall
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			content += part.Text
		}
		if part.FunctionCall != nil {
			argsBytes, _ := json.Marshal(part.FunctionCall.Args)
			toolCalls = append(toolCalls, types.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Arguments: string(argsBytes),
			})
		}
	}

	out := &llm.ProviderResponse{
		Model:     model,
		Content:   content,
		ToolCalls: toolCalls,
	}
	if resp.UsageMetadata != nil {
		out.Usage = types.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}
