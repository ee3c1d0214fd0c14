// Package tools defines the mission command surface the model plans with:
// five add commands, three editing commands and the approval gate. Every
// handler delegates to the session's planner, which owns validation and
// rollback; handlers only translate arguments.
package tools

import (
	"context"

	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Definitions

var AddTakeoffTool = types.Tool{
	Name:        "add_takeoff",
	Description: "Add the takeoff command. A mission has exactly one takeoff and it is always the first item; adding another replaces it.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": withPosition(map[string]any{
			"altitude": map[string]any{
				"description": "Climb-out altitude; a number of meters or a string with units like '150 feet'",
			},
			"item_heading": map[string]any{
				"description": "Transition heading after liftoff; compass words or degrees",
			},
		}),
	},
	Metadata: map[string]string{"category": "mission"},
}

var AddWaypointTool = types.Tool{
	Name:        "add_waypoint",
	Description: "Add a waypoint the vehicle flies through. Position may be absolute, an MGRS grid, or a distance and heading from the origin or the last waypoint.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": withPosition(map[string]any{
			"altitude": map[string]any{
				"description": "Altitude at the waypoint; a number of meters or a string with units",
			},
			"item_heading": map[string]any{
				"description": "Facing to hold at the waypoint; compass words or degrees",
			},
			"search_target": map[string]any{
				"type":        "string",
				"description": "What to look for while flying this leg",
			},
			"detection_behavior": map[string]any{
				"type":        "string",
				"enum":        []string{"tag_and_continue", "detect_and_monitor"},
				"description": "What to do when the search target is found",
			},
			"insert_at": map[string]any{
				"type":        "integer",
				"description": "1-based position in the mission; omit to append",
				"minimum":     1.0,
			},
		}),
	},
	Metadata: map[string]string{"category": "mission"},
}

var AddLoiterTool = types.Tool{
	Name:        "add_loiter",
	Description: "Add a loiter command: circle a point at a given radius and altitude.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": withPosition(map[string]any{
			"altitude": map[string]any{
				"description": "Loiter altitude; a number of meters or a string with units",
			},
			"radius": map[string]any{
				"description": "Circle radius; a number of meters or a string with units like '400 feet'",
			},
			"search_target": map[string]any{
				"type":        "string",
				"description": "What to look for while circling",
			},
			"detection_behavior": map[string]any{
				"type": "string",
				"enum": []string{"tag_and_continue", "detect_and_monitor"},
			},
			"insert_at": map[string]any{
				"type":        "integer",
				"description": "1-based position in the mission; omit to append",
				"minimum":     1.0,
			},
		}),
	},
	Metadata: map[string]string{"category": "mission"},
}

var AddSurveyTool = types.Tool{
	Name:        "add_survey",
	Description: "Add a survey command: systematically cover an area around a center point, or a polygon given by corners.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": withPosition(map[string]any{
			"altitude": map[string]any{
				"description": "Survey altitude; a number of meters or a string with units",
			},
			"radius": map[string]any{
				"description": "Coverage radius around the center; ignored when corners are given",
			},
			"corners": map[string]any{
				"type":        "array",
				"description": "Polygon boundary as {latitude, longitude} objects, at least 3",
			},
			"search_target": map[string]any{
				"type":        "string",
				"description": "What to look for over the area",
			},
			"detection_behavior": map[string]any{
				"type": "string",
				"enum": []string{"tag_and_continue", "detect_and_monitor"},
			},
			"insert_at": map[string]any{
				"type":        "integer",
				"description": "1-based position in the mission; omit to append",
				"minimum":     1.0,
			},
		}),
	},
	Metadata: map[string]string{"category": "mission"},
}

var AddRTLTool = types.Tool{
	Name:        "add_rtl",
	Description: "Add the return-to-launch command. A mission has at most one RTL and it is always the last item; adding another replaces it.",
	Parameters: types.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"altitude": map[string]any{
				"description": "Return altitude; a number of meters or a string with units. May be zero to keep the flight controller's return height.",
			},
		},
	},
	Metadata: map[string]string{"category": "mission"},
}

// Implementations

func (s *Suite) handleAdd(ct types.CommandType) tool.Handler {
	return func(ctx context.Context, args tool.Arguments) (*types.CallResult, error) {
		params, err := parseAddParams(args, ct, s.cfg.Snapshot())
		if err != nil {
			return nil, err
		}
		return s.planner.AddCommand(ct, params)
	}
}

// withPosition merges the shared placement fields into a tool's own
// properties.
func withPosition(props map[string]any) map[string]any {
	for k, v := range positionProperties() {
		props[k] = v
	}
	return props
}
