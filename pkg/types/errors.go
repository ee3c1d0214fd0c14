package types

import "fmt"

// ArgumentError reports malformed or out-of-range tool input. No mutation
// has happened when one is returned.
type ArgumentError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// ResolutionCode classifies why a position could not be resolved
type ResolutionCode string

const (
	ResolutionInvalidGrid      ResolutionCode = "invalid_grid"
	ResolutionNoReferencePoint ResolutionCode = "no_reference_point"
	ResolutionOutOfRange       ResolutionCode = "out_of_range"
)

// ResolutionError reports an undeterminable position. No mutation has
// happened when one is returned.
type ResolutionError struct {
	Code   ResolutionCode `json:"code"`
	Reason string         `json:"reason"`
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("position resolution failed (%s): %s", e.Code, e.Reason)
}

// CapacityError reports a full mission; the mutation was aborted whole.
type CapacityError struct {
	Limit int `json:"limit"`
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("mission already holds the maximum of %d items", e.Limit)
}

// NotFoundError reports a sequence number outside the mission
type NotFoundError struct {
	Seq int `json:"seq"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no mission item with sequence %d", e.Seq)
}

// Severity ranks validation outcomes
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityWarning Severity = "warning"
	SeverityAutofix Severity = "autofix"
)

// ValidationIssue is one finding from the validation pipeline
type ValidationIssue struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Check, v.Message)
}

// PersistenceError reports a failed durable write. The approval workflow
// stays in UnderReview so the write can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
