package dto

import (
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// SessionResponse is the response for a single session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionListResponse is the response for listing sessions.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// TurnResponse is the outcome of one user message.
type TurnResponse struct {
	Reply   string         `json:"reply"`
	Mission *types.Mission `json:"mission"`
	State   string         `json:"state"`
	Summary string         `json:"summary"`
}

// MissionResponse is the current mission of a session.
type MissionResponse struct {
	Mission *types.Mission `json:"mission"`
	State   string         `json:"state"`
	Summary string         `json:"summary"`
}

// ApprovalResponse is the outcome of an approve call.
type ApprovalResponse struct {
	State      string    `json:"state"`
	RecordID   string    `json:"record_id,omitempty"`
	MissionID  string    `json:"mission_id,omitempty"`
	ApprovedAt time.Time `json:"approved_at,omitempty"`
}

// RecordResponse is one persisted approved mission.
type RecordResponse struct {
	ID         string              `json:"id"`
	MissionID  string              `json:"mission_id"`
	SessionID  string              `json:"session_id"`
	ApprovedAt time.Time           `json:"approved_at"`
	Items      []types.MissionItem `json:"items"`
}

// RecordListResponse lists persisted missions, newest first.
type RecordListResponse struct {
	Missions []RecordResponse `json:"missions"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse is the response for delete operations.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
