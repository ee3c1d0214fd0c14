package types

// Tool definition exposed to the reasoning collaborator
type Tool struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  JSONSchema        `json:"parameters"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ToolCall represents an invocation request from the model
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// ToolResult represents the wire-level output of a tool execution
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
	Error      string `json:"error,omitempty"`
}

// CallResult is the structured outcome of a mission tool call. It is
// serialized into ToolResult.Content so the model sees the same contract the
// API layer does.
type CallResult struct {
	Success  bool          `json:"success"`
	Items    []MissionItem `json:"items,omitempty"`
	Message  string        `json:"message"`
	Warnings []string      `json:"warnings,omitempty"`
}
