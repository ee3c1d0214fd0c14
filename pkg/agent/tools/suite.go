package tools

import (
	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Suite binds the mission tools to one session's planner. Command-mode
// sessions get the same surface; the planner relaxes validation there.
type Suite struct {
	cfg     *config.Store
	planner *planner.Planner
}

func NewSuite(cfg *config.Store, p *planner.Planner) *Suite {
	return &Suite{cfg: cfg, planner: p}
}

// Register installs every tool definition and handler on the executor.
func (s *Suite) Register(exec *tool.Executor, registry *tool.Registry) error {
	bindings := []struct {
		def     types.Tool
		handler tool.Handler
	}{
		{AddTakeoffTool, s.handleAdd(types.CommandTakeoff)},
		{AddWaypointTool, s.handleAdd(types.CommandWaypoint)},
		{AddLoiterTool, s.handleAdd(types.CommandLoiter)},
		{AddSurveyTool, s.handleAdd(types.CommandSurvey)},
		{AddRTLTool, s.handleAdd(types.CommandRTL)},
		{UpdateItemTool, s.handleUpdate},
		{DeleteItemTool, s.handleDelete},
		{MoveItemTool, s.handleMove},
		{ShowForApprovalTool, s.handleShowForApproval},
	}
	for _, b := range bindings {
		if err := registry.Register(b.def); err != nil {
			return err
		}
		exec.RegisterHandler(b.def.Name, b.handler)
	}
	return nil
}
