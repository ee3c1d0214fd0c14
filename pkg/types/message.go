package types

import "time"

// Message is one turn of the conversation with the reasoning collaborator
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"` // system/user/assistant/tool
	Content string `json:"content"`

	// Assistant: tool calls requested by the model
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Tool: which call this result answers
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"` // Required for Gemini

	Timestamp time.Time `json:"timestamp"`
}

// Usage reports provider token consumption
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
