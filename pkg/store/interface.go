// Package store persists approved missions. A record is the fully resolved,
// fully defaulted item list: executing it needs no further resolution.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

var ErrNotFound = errors.New("mission record not found")

// Record is one durable approved mission.
type Record struct {
	ID         string              `json:"id"` // record UUID, also the filename
	MissionID  string              `json:"mission_id"`
	SessionID  string              `json:"session_id,omitempty"`
	ApprovedAt time.Time           `json:"approved_at"`
	Items      []types.MissionItem `json:"items"`
}

// Store is the durable mission repository.
type Store interface {
	Open(ctx context.Context) error
	SaveMission(ctx context.Context, rec *Record) error
	GetMission(ctx context.Context, id string) (*Record, error)
	ListMissions(ctx context.Context) ([]Record, error)
	Close() error
}
