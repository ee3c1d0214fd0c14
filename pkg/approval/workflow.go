// Package approval drives the review state machine: Building → UnderReview →
// Approved or Rejected. Approval is the only path to durable persistence.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/mission"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

type State string

const (
	StateBuilding    State = "building"
	StateUnderReview State = "under_review"
	StateApproved    State = "approved" // terminal
)

var (
	// ErrValidationFailed reports fatal findings that kept the mission in
	// Building; UnderReview was never entered.
	ErrValidationFailed = errors.New("mission failed strict validation")
	// ErrInvalidTransition reports a signal that does not apply to the
	// current state.
	ErrInvalidTransition = errors.New("invalid approval transition")
)

// Workflow tracks one session's review state. Persistence happens outside
// any cross-session lock; the workflow only serializes with its own session.
type Workflow struct {
	state    State
	missions store.Store
	feedback []string
}

func New(missions store.Store) *Workflow {
	return &Workflow{state: StateBuilding, missions: missions}
}

func (w *Workflow) State() State { return w.state }

// Feedback returns reviewer comments collected from rejections.
func (w *Workflow) Feedback() []string { return w.feedback }

// SubmitForReview runs the pipeline in strict mode (fatal checks block even
// for command-mode sessions) and moves Building → UnderReview only when no
// fatal issue remains. On fatal findings the workflow stays in Building and
// the report carries the error list.
func (w *Workflow) SubmitForReview(ms *mission.Store, cfg *config.Config) (mission.Report, error) {
	if w.state == StateApproved {
		return mission.Report{}, fmt.Errorf("%w: mission already approved", ErrInvalidTransition)
	}

	report := mission.NewPipeline(cfg, types.ModeMission).Run(ms)
	if fatal := report.Fatal(); len(fatal) > 0 {
		w.state = StateBuilding
		return report, fmt.Errorf("%w: %d fatal issue(s)", ErrValidationFailed, len(fatal))
	}

	w.state = StateUnderReview
	return report, nil
}

// Approve persists the full resolved item list atomically and enters the
// terminal Approved state. A failed write keeps the workflow in UnderReview
// so approval can be retried; a mission is never silently dropped.
func (w *Workflow) Approve(ctx context.Context, ms *mission.Store, sessionID string) (*store.Record, error) {
	if w.state != StateUnderReview {
		return nil, fmt.Errorf("%w: approve requires a mission under review, state is %s", ErrInvalidTransition, w.state)
	}
	if !ms.Validated() {
		// Mutated since review; force a fresh submission.
		w.state = StateBuilding
		return nil, fmt.Errorf("%w: mission changed since review", ErrInvalidTransition)
	}

	snapshot := ms.Snapshot()
	rec := &store.Record{
		MissionID:  snapshot.ID,
		SessionID:  sessionID,
		ApprovedAt: time.Now().UTC(),
		Items:      snapshot.Items,
	}
	if err := w.missions.SaveMission(ctx, rec); err != nil {
		return nil, &types.PersistenceError{Op: "approve", Err: err}
	}

	w.state = StateApproved
	return rec, nil
}

// Reject returns the workflow to Building, recording reviewer feedback.
func (w *Workflow) Reject(feedback string) error {
	if w.state != StateUnderReview {
		return fmt.Errorf("%w: reject requires a mission under review, state is %s", ErrInvalidTransition, w.state)
	}
	if feedback != "" {
		w.feedback = append(w.feedback, feedback)
	}
	w.state = StateBuilding
	return nil
}

// Reset returns to Building, e.g. when the session's mission is cleared.
func (w *Workflow) Reset() {
	w.state = StateBuilding
	w.feedback = nil
}
