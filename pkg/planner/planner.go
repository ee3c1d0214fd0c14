// Package planner turns parsed tool arguments into invariant-preserving
// mission mutations. Each call runs the same sequence: resolve the position,
// complete omitted parameters from configuration, mutate the store, then
// re-validate. A mutation whose post-state fails a blocking check is rolled
// back, so every call is all-or-nothing.
package planner

import (
	"context"
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/approval"
	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/mission"
	"github.com/px4-agent-org/px4-agent/pkg/position"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Planner owns one session's mission and approval state. It is not safe for
// concurrent use; the session serializes calls onto it.
type Planner struct {
	cfg      *config.Store
	mission  *mission.Store
	workflow *approval.Workflow
	mode     types.SessionMode

	// advisory findings from the last revalidation, surfaced on the
	// next successful result
	pending []string
}

func New(cfg *config.Store, missions store.Store, mode types.SessionMode) *Planner {
	return &Planner{
		cfg:      cfg,
		mission:  mission.NewStore(nil),
		workflow: approval.New(missions),
		mode:     mode,
	}
}

func (p *Planner) Mode() types.SessionMode  { return p.mode }
func (p *Planner) State() approval.State    { return p.workflow.State() }
func (p *Planner) Snapshot() *types.Mission { return p.mission.Snapshot() }
func (p *Planner) Store() *mission.Store    { return p.mission }

// AddParams carries everything an add-command call may provide. Position nil
// means "place it for me": takeoff goes to the configured origin, everything
// else continues from the last positioned item.
type AddParams struct {
	Position      *types.PositionSpec
	InsertAt      int
	Fields        mission.Partial
	SurveyCorners []types.Coordinate
}

// AddCommand appends or inserts a mission item of the given type.
func (p *Planner) AddCommand(ct types.CommandType, params AddParams) (*types.CallResult, error) {
	cfg := p.cfg.Snapshot()
	var warnings []string

	completed, warns, err := mission.Complete(ct, params.Fields, cfg)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, warns...)

	item := types.MissionItem{CommandType: ct, SurveyCorners: params.SurveyCorners}
	completed.Apply(&item)

	if ct != types.CommandRTL {
		coord, err := position.Resolve(p.positionSpec(ct, params.Position), p.mission.Mission(), cfg)
		if err != nil {
			return nil, err
		}
		item.Latitude = coord.Latitude
		item.Longitude = coord.Longitude
	} else {
		p.homeCoordinate(&item, cfg)
	}

	saved, savedValidated := p.mission.Snapshot(), p.mission.Validated()

	var stored types.MissionItem
	var replaced bool
	switch ct {
	case types.CommandTakeoff:
		stored, replaced, err = p.mission.UpsertTakeoff(item, cfg.Agent.MaxMissionItems)
	case types.CommandRTL:
		stored, replaced, err = p.mission.UpsertRTL(item, cfg.Agent.MaxMissionItems)
	default:
		insertAt := params.InsertAt
		// A plain append goes in front of an existing RTL so the return
		// leg stays last.
		if insertAt <= 0 {
			if idx := p.mission.Mission().RTLIndex(); idx >= 0 {
				insertAt = idx + 1
			}
		}
		stored, err = p.mission.Add(item, insertAt, cfg.Agent.MaxMissionItems)
	}
	if err != nil {
		return nil, err
	}
	if replaced {
		warnings = append(warnings, fmt.Sprintf("replaced the existing %s command", ct))
	}

	if blocked, result := p.revalidate(saved, savedValidated, warnings); blocked {
		return result, nil
	}

	return &types.CallResult{
		Success:  true,
		Items:    []types.MissionItem{stored},
		Message:  fmt.Sprintf("added %s as item %d of %d", ct, stored.Seq, p.mission.Len()),
		Warnings: p.drainWarnings(warnings),
	}, nil
}

// UpdateParams carries a partial edit. Only provided fields change;
// ClearFields resets optional fields back to empty.
type UpdateParams struct {
	Position      *types.PositionSpec
	Fields        mission.Partial
	SurveyCorners []types.Coordinate
	ClearFields   []string
}

// UpdateItem edits the item at seq in place.
func (p *Planner) UpdateItem(seq int, params UpdateParams) (*types.CallResult, error) {
	cfg := p.cfg.Snapshot()
	item, err := p.mission.Get(seq)
	if err != nil {
		return nil, err
	}
	var warnings []string

	if params.Position != nil {
		coord, err := position.Resolve(*params.Position, p.mission.Mission(), cfg)
		if err != nil {
			return nil, err
		}
		item.Latitude = coord.Latitude
		item.Longitude = coord.Longitude
	}
	if params.Fields.Altitude != nil {
		item.AltitudeM = params.Fields.Altitude.Meters()
		item.AltitudeUnits = params.Fields.Altitude.Unit
	}
	if params.Fields.Radius != nil {
		item.RadiusM = params.Fields.Radius.Meters()
		item.RadiusUnits = params.Fields.Radius.Unit
	}
	if params.Fields.Heading != nil {
		deg, err := geo.ParseHeading(*params.Fields.Heading)
		if err != nil {
			return nil, &types.ArgumentError{Field: "heading", Reason: err.Error()}
		}
		item.HeadingDeg = &deg
	}
	if params.Fields.SearchTarget != nil {
		item.SearchTarget = *params.Fields.SearchTarget
	}
	if params.Fields.DetectionBehavior != nil {
		switch b := *params.Fields.DetectionBehavior; b {
		case string(types.DetectTagAndContinue), string(types.DetectAndMonitor):
			item.DetectionBehavior = types.DetectionBehavior(b)
		default:
			return nil, &types.ArgumentError{
				Field:  "detection_behavior",
				Reason: fmt.Sprintf("must be %q or %q", types.DetectTagAndContinue, types.DetectAndMonitor),
			}
		}
	}
	if len(params.SurveyCorners) > 0 {
		item.SurveyCorners = params.SurveyCorners
	}
	for _, f := range params.ClearFields {
		if err := clearField(&item, f); err != nil {
			return nil, err
		}
	}

	saved, savedValidated := p.mission.Snapshot(), p.mission.Validated()
	stored, err := p.mission.Replace(seq, item)
	if err != nil {
		return nil, err
	}
	if blocked, result := p.revalidate(saved, savedValidated, warnings); blocked {
		return result, nil
	}

	return &types.CallResult{
		Success:  true,
		Items:    []types.MissionItem{stored},
		Message:  fmt.Sprintf("updated item %d (%s)", seq, stored.CommandType),
		Warnings: p.drainWarnings(warnings),
	}, nil
}

// DeleteItem removes the item at seq; the remainder is renumbered.
func (p *Planner) DeleteItem(seq int) (*types.CallResult, error) {
	item, err := p.mission.Get(seq)
	if err != nil {
		return nil, err
	}
	saved, savedValidated := p.mission.Snapshot(), p.mission.Validated()
	if err := p.mission.Delete(seq); err != nil {
		return nil, err
	}
	if blocked, result := p.revalidate(saved, savedValidated, nil); blocked {
		return result, nil
	}
	return &types.CallResult{
		Success: true,
		Message: fmt.Sprintf("deleted item %d (%s); %d items remain", seq, item.CommandType, p.mission.Len()),
	}, nil
}

// MoveItem relocates the item at fromSeq to toSeq.
func (p *Planner) MoveItem(fromSeq, toSeq int) (*types.CallResult, error) {
	saved, savedValidated := p.mission.Snapshot(), p.mission.Validated()
	if err := p.mission.Move(fromSeq, toSeq); err != nil {
		return nil, err
	}
	if blocked, result := p.revalidate(saved, savedValidated, nil); blocked {
		return result, nil
	}
	return &types.CallResult{
		Success: true,
		Items:   p.mission.Snapshot().Items,
		Message: fmt.Sprintf("moved item %d to position %d", fromSeq, toSeq),
	}, nil
}

// ShowForApproval runs the strict pipeline (autofixes enabled) and moves the
// mission into review when nothing blocking remains.
func (p *Planner) ShowForApproval() (*types.CallResult, error) {
	cfg := p.cfg.Snapshot()
	report, err := p.workflow.SubmitForReview(p.mission, cfg)
	if err != nil {
		return &types.CallResult{
			Success:  false,
			Message:  "mission failed validation and stays in the building state",
			Warnings: report.Messages(),
		}, nil
	}
	return &types.CallResult{
		Success:  true,
		Items:    p.mission.Snapshot().Items,
		Message:  fmt.Sprintf("mission with %d items is ready for review", p.mission.Len()),
		Warnings: report.Messages(),
	}, nil
}

// Approve persists the reviewed mission and returns the stored record.
func (p *Planner) Approve(ctx context.Context, sessionID string) (*store.Record, error) {
	return p.workflow.Approve(ctx, p.mission, sessionID)
}

// Reject returns the mission to building with reviewer feedback attached.
func (p *Planner) Reject(feedback string) error {
	return p.workflow.Reject(feedback)
}

// Feedback returns accumulated rejection feedback.
func (p *Planner) Feedback() []string { return p.workflow.Feedback() }

// Clear discards the mission and resets the approval state.
func (p *Planner) Clear() {
	p.mission.Reset()
	p.workflow.Reset()
}

// positionSpec supplies the default placement when the caller gave none.
func (p *Planner) positionSpec(ct types.CommandType, spec *types.PositionSpec) types.PositionSpec {
	if spec != nil {
		return *spec
	}
	if ct == types.CommandTakeoff {
		return types.RelativePosition(0, 0, types.FrameOrigin)
	}
	return types.RelativePosition(0, 0, types.FrameLastWaypoint)
}

// homeCoordinate fills the display coordinate for RTL, which always flies to
// the takeoff point.
func (p *Planner) homeCoordinate(item *types.MissionItem, cfg *config.Config) {
	if idx := p.mission.Mission().TakeoffIndex(); idx >= 0 {
		item.Latitude = p.mission.Mission().Items[idx].Latitude
		item.Longitude = p.mission.Mission().Items[idx].Longitude
		return
	}
	item.Latitude = cfg.Takeoff.Latitude
	item.Longitude = cfg.Takeoff.Longitude
}

// revalidate runs the advisory pipeline over the mutated mission. In mission
// mode a blocking finding rolls the mutation back and reports failure; in
// command mode everything surfaces as warnings.
func (p *Planner) revalidate(saved *types.Mission, savedValidated bool, warnings []string) (bool, *types.CallResult) {
	cfg := p.cfg.Snapshot()
	if !cfg.Agent.AutoValidate {
		return false, nil
	}
	report := mission.NewAdvisory(cfg, p.mode).Run(p.mission)
	if fatal := report.Fatal(); len(fatal) > 0 {
		p.mission.Restore(saved, savedValidated)
		msgs := make([]string, 0, len(fatal))
		for _, is := range fatal {
			msgs = append(msgs, is.String())
		}
		return true, &types.CallResult{
			Success:  false,
			Message:  "change rejected: it would leave the mission invalid",
			Warnings: append(warnings, msgs...),
		}
	}
	p.pending = append(p.pending, report.Messages()...)
	return false, nil
}

// drainWarnings merges call warnings with findings collected by the last
// advisory run.
func (p *Planner) drainWarnings(warnings []string) []string {
	out := append(warnings, p.pending...)
	p.pending = nil
	return out
}

func clearField(item *types.MissionItem, field string) error {
	switch field {
	case "heading":
		item.HeadingDeg = nil
	case "search_target":
		item.SearchTarget = ""
	case "detection_behavior":
		item.DetectionBehavior = ""
	case "survey_corners":
		item.SurveyCorners = nil
	case "radius":
		item.RadiusM = 0
		item.RadiusUnits = ""
	default:
		return &types.ArgumentError{Field: "clear_fields", Reason: fmt.Sprintf("field %q cannot be cleared", field)}
	}
	return nil
}
