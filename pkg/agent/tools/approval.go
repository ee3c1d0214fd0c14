package tools

import (
	"context"

	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Definitions

var ShowForApprovalTool = types.Tool{
	Name:        "show_mission_for_approval",
	Description: "Present the finished mission to the operator for approval. Runs full validation first; a mission with blocking problems is not presented.",
	Parameters: types.JSONSchema{
		"type":       "object",
		"properties": map[string]any{},
	},
	Metadata: map[string]string{"category": "approval"},
}

// Implementations

func (s *Suite) handleShowForApproval(ctx context.Context, args tool.Arguments) (*types.CallResult, error) {
	return s.planner.ShowForApproval()
}
