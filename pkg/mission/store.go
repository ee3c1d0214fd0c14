// Package mission owns the ordered item sequence and the rules that keep it
// well-formed: contiguous renumbering, capacity, single takeoff/RTL, default
// completion and the validation pipeline.
package mission

import (
	"fmt"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

func nowUTC() time.Time { return time.Now().UTC() }

// Store wraps one Mission with invariant-preserving mutations. Every
// successful mutation renumbers items contiguously and clears the validated
// flag; every failed mutation leaves the mission untouched.
type Store struct {
	mission   *types.Mission
	validated bool
}

func NewStore(m *types.Mission) *Store {
	if m == nil {
		m = types.NewMission()
	}
	return &Store{mission: m}
}

// Mission exposes the underlying mission for reads. Callers must not mutate.
func (s *Store) Mission() *types.Mission { return s.mission }

// Snapshot returns a deep copy safe to hand across the API boundary.
func (s *Store) Snapshot() *types.Mission { return s.mission.Clone() }

func (s *Store) Len() int { return len(s.mission.Items) }

// Validated reports whether the mission passed validation since its last
// mutation.
func (s *Store) Validated() bool { return s.validated }
func (s *Store) MarkValidated()  { s.validated = true }
func (s *Store) invalidate()     { s.validated = false }

// Restore replaces the mission wholesale. Used to roll back a mutation
// whose post-state failed validation, so callers observe all-or-nothing
// tool calls.
func (s *Store) Restore(m *types.Mission, validated bool) {
	s.mission = m
	s.validated = validated
}

// Reset replaces the mission with a fresh empty one.
func (s *Store) Reset() {
	s.mission = types.NewMission()
	s.validated = false
}

// Get returns the item at seq.
func (s *Store) Get(seq int) (types.MissionItem, error) {
	if seq < 0 || seq >= len(s.mission.Items) {
		return types.MissionItem{}, &types.NotFoundError{Seq: seq}
	}
	return s.mission.Items[seq], nil
}

// Add inserts an item. insertAt is a 1-based position; zero or negative
// means append, past-the-end clamps to append. maxItems caps the mission;
// exceeding it aborts with no state change.
func (s *Store) Add(item types.MissionItem, insertAt, maxItems int) (types.MissionItem, error) {
	if maxItems > 0 && len(s.mission.Items)+1 > maxItems {
		return types.MissionItem{}, &types.CapacityError{Limit: maxItems}
	}

	idx := len(s.mission.Items)
	if insertAt > 0 && insertAt-1 < idx {
		idx = insertAt - 1
	}

	s.mission.Items = append(s.mission.Items, types.MissionItem{})
	copy(s.mission.Items[idx+1:], s.mission.Items[idx:])
	s.mission.Items[idx] = item

	s.renumber()
	s.touch()
	return s.mission.Items[idx], nil
}

// Replace overwrites the item at seq keeping its position.
func (s *Store) Replace(seq int, item types.MissionItem) (types.MissionItem, error) {
	if seq < 0 || seq >= len(s.mission.Items) {
		return types.MissionItem{}, &types.NotFoundError{Seq: seq}
	}
	item.Seq = seq
	s.mission.Items[seq] = item
	s.touch()
	return item, nil
}

// Delete removes the item at seq and renumbers the remainder contiguously.
func (s *Store) Delete(seq int) error {
	if seq < 0 || seq >= len(s.mission.Items) {
		return &types.NotFoundError{Seq: seq}
	}
	s.mission.Items = append(s.mission.Items[:seq], s.mission.Items[seq+1:]...)
	s.renumber()
	s.touch()
	return nil
}

// Move relocates the item at from to position to, shifting the rest.
func (s *Store) Move(from, to int) error {
	n := len(s.mission.Items)
	if from < 0 || from >= n {
		return &types.NotFoundError{Seq: from}
	}
	if to < 0 || to >= n {
		return &types.NotFoundError{Seq: to}
	}
	if from == to {
		return nil
	}

	item := s.mission.Items[from]
	rest := append(s.mission.Items[:from], s.mission.Items[from+1:]...)
	rest = append(rest, types.MissionItem{})
	copy(rest[to+1:], rest[to:])
	rest[to] = item
	s.mission.Items = rest

	s.renumber()
	s.touch()
	return nil
}

// UpsertTakeoff places a takeoff at the head of the mission, replacing any
// existing one. Returns whether a prior takeoff was replaced.
func (s *Store) UpsertTakeoff(item types.MissionItem, maxItems int) (types.MissionItem, bool, error) {
	item.CommandType = types.CommandTakeoff
	if idx := s.mission.TakeoffIndex(); idx >= 0 {
		s.mission.Items[idx] = item
		if idx != 0 {
			// Re-home a stray takeoff while we are replacing it anyway.
			if err := s.Move(idx, 0); err != nil {
				return types.MissionItem{}, false, fmt.Errorf("move takeoff to head: %w", err)
			}
		} else {
			s.renumber()
			s.touch()
		}
		return s.mission.Items[0], true, nil
	}
	added, err := s.Add(item, 1, maxItems)
	return added, false, err
}

// UpsertRTL places an RTL at the tail of the mission, replacing any existing
// one. Returns whether a prior RTL was replaced.
func (s *Store) UpsertRTL(item types.MissionItem, maxItems int) (types.MissionItem, bool, error) {
	item.CommandType = types.CommandRTL
	if idx := s.mission.RTLIndex(); idx >= 0 {
		s.mission.Items[idx] = item
		last := len(s.mission.Items) - 1
		if idx != last {
			if err := s.Move(idx, last); err != nil {
				return types.MissionItem{}, false, fmt.Errorf("move rtl to tail: %w", err)
			}
		} else {
			s.renumber()
			s.touch()
		}
		return s.mission.Items[len(s.mission.Items)-1], true, nil
	}
	added, err := s.Add(item, 0, maxItems)
	return added, false, err
}

func (s *Store) renumber() {
	for i := range s.mission.Items {
		s.mission.Items[i].Seq = i
	}
}

func (s *Store) touch() {
	s.mission.ModifiedAt = nowUTC()
	s.invalidate()
}
