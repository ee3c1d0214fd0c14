package tools

import (
	"context"

	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Definitions

var UpdateItemTool = types.Tool{
	Name:        "update_mission_item",
	Description: "Edit one mission item in place. Only the fields given change; clear_fields resets optional fields.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": withPosition(map[string]any{
			"seq": map[string]any{
				"type":        "integer",
				"description": "Sequence number of the item to edit",
				"minimum":     0.0,
			},
			"altitude": map[string]any{
				"description": "New altitude; a number of meters or a string with units",
			},
			"radius": map[string]any{
				"description": "New radius for loiter or survey items",
			},
			"item_heading": map[string]any{
				"description": "New facing; compass words or degrees",
			},
			"search_target": map[string]any{
				"type": "string",
			},
			"detection_behavior": map[string]any{
				"type": "string",
				"enum": []string{"tag_and_continue", "detect_and_monitor"},
			},
			"corners": map[string]any{
				"type":        "array",
				"description": "Replacement survey boundary",
			},
			"clear_fields": map[string]any{
				"type":        "array",
				"description": "Optional fields to reset: heading, search_target, detection_behavior, radius, survey_corners",
			},
		}),
		"required": []string{"seq"},
	},
	Metadata: map[string]string{"category": "mission"},
}

var DeleteItemTool = types.Tool{
	Name:        "delete_mission_item",
	Description: "Remove one mission item. The remaining items are renumbered contiguously.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"seq": map[string]any{
				"type":        "integer",
				"description": "Sequence number of the item to remove",
				"minimum":     0.0,
			},
		},
		"required": []string{"seq"},
	},
	Metadata: map[string]string{"category": "mission"},
}

var MoveItemTool = types.Tool{
	Name:        "move_mission_item",
	Description: "Move one mission item to a different position, shifting the items between.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"from_seq": map[string]any{
				"type":        "integer",
				"description": "Sequence number of the item to move",
				"minimum":     0.0,
			},
			"to_seq": map[string]any{
				"type":        "integer",
				"description": "Sequence number it should end up at",
				"minimum":     0.0,
			},
		},
		"required": []string{"from_seq", "to_seq"},
	},
	Metadata: map[string]string{"category": "mission"},
}

// Implementations

func (s *Suite) handleUpdate(ctx context.Context, args tool.Arguments) (*types.CallResult, error) {
	seq, _ := args.Int("seq")
	cfg := s.cfg.Snapshot()

	var params planner.UpdateParams
	pos, err := parsePosition(args, cfg)
	if err != nil {
		return nil, err
	}
	params.Position = pos

	item, err := s.planner.Store().Get(seq)
	if err != nil {
		return nil, err
	}
	params.Fields, err = parseFields(args, item.CommandType, cfg)
	if err != nil {
		return nil, err
	}
	params.SurveyCorners, err = parseCorners(args)
	if err != nil {
		return nil, err
	}
	if raw, ok := args["clear_fields"].([]any); ok {
		for _, f := range raw {
			name, ok := f.(string)
			if !ok {
				return nil, &types.ArgumentError{Field: "clear_fields", Reason: "must be an array of field names"}
			}
			params.ClearFields = append(params.ClearFields, name)
		}
	}
	return s.planner.UpdateItem(seq, params)
}

func (s *Suite) handleDelete(ctx context.Context, args tool.Arguments) (*types.CallResult, error) {
	seq, ok := args.Int("seq")
	if !ok {
		return nil, &types.ArgumentError{Field: "seq", Reason: "must be an integer"}
	}
	return s.planner.DeleteItem(seq)
}

func (s *Suite) handleMove(ctx context.Context, args tool.Arguments) (*types.CallResult, error) {
	from, okFrom := args.Int("from_seq")
	to, okTo := args.Int("to_seq")
	if !okFrom || !okTo {
		return nil, &types.ArgumentError{Field: "from_seq", Reason: "from_seq and to_seq must be integers"}
	}
	return s.planner.MoveItem(from, to)
}
