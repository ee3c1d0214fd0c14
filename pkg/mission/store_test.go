package mission

import (
	"errors"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

func wp(alt float64) types.MissionItem {
	return types.MissionItem{CommandType: types.CommandWaypoint, Latitude: 47.4, Longitude: 8.5, AltitudeM: alt}
}

func seqsOf(s *Store) []int {
	out := make([]int, s.Len())
	for i, it := range s.Mission().Items {
		out[i] = it.Seq
	}
	return out
}

func altsOf(s *Store) []float64 {
	out := make([]float64, s.Len())
	for i, it := range s.Mission().Items {
		out[i] = it.AltitudeM
	}
	return out
}

func TestStoreAddRenumbers(t *testing.T) {
	s := NewStore(nil)
	for _, alt := range []float64{10, 20, 30} {
		if _, err := s.Add(wp(alt), 0, 0); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	// Insert at 1-based position 2, between the 10 m and 20 m items.
	if _, err := s.Add(wp(15), 2, 0); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	wantAlts := []float64{10, 15, 20, 30}
	for i, alt := range altsOf(s) {
		if alt != wantAlts[i] {
			t.Fatalf("order after insert = %v, want %v", altsOf(s), wantAlts)
		}
	}
	for i, seq := range seqsOf(s) {
		if seq != i {
			t.Fatalf("seq not contiguous after insert: %v", seqsOf(s))
		}
	}

	// Past-the-end insert clamps to append.
	if _, err := s.Add(wp(40), 99, 0); err != nil {
		t.Fatalf("clamped insert failed: %v", err)
	}
	if got := altsOf(s)[s.Len()-1]; got != 40 {
		t.Fatalf("expected 40 m item appended, tail is %v", got)
	}
}

func TestStoreCapacity(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Add(wp(10), 0, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := s.Add(wp(20), 0, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err := s.Add(wp(30), 0, 2)
	var capErr *types.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("failed add mutated the mission: %d items", s.Len())
	}
}

func TestStoreDeleteRenumbers(t *testing.T) {
	s := NewStore(nil)
	for _, alt := range []float64{10, 20, 30} {
		s.Add(wp(alt), 0, 0)
	}

	if err := s.Delete(1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := altsOf(s); got[0] != 10 || got[1] != 30 {
		t.Fatalf("order after delete = %v", got)
	}
	for i, seq := range seqsOf(s) {
		if seq != i {
			t.Fatalf("seq not contiguous after delete: %v", seqsOf(s))
		}
	}

	var nf *types.NotFoundError
	if err := s.Delete(5); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestStoreMoveRoundTrip(t *testing.T) {
	s := NewStore(nil)
	for _, alt := range []float64{10, 20, 30} {
		s.Add(wp(alt), 0, 0)
	}

	if err := s.Move(0, 2); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if got := altsOf(s); got[0] != 20 || got[1] != 30 || got[2] != 10 {
		t.Fatalf("order after move = %v", got)
	}

	if err := s.Move(2, 0); err != nil {
		t.Fatalf("move back failed: %v", err)
	}
	if got := altsOf(s); got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Fatalf("move then move back did not restore order: %v", got)
	}
}

func TestStoreUpsertTakeoff(t *testing.T) {
	s := NewStore(nil)
	s.Add(wp(100), 0, 0)

	to := types.MissionItem{CommandType: types.CommandTakeoff, AltitudeM: 50}
	_, replaced, err := s.UpsertTakeoff(to, 0)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if replaced {
		t.Fatal("first upsert reported a replacement")
	}
	if s.Mission().Items[0].CommandType != types.CommandTakeoff {
		t.Fatalf("takeoff not at head: %v", s.Mission().Items[0].CommandType)
	}

	to.AltitudeM = 75
	got, replaced, err := s.UpsertTakeoff(to, 0)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if !replaced {
		t.Fatal("second upsert did not report a replacement")
	}
	if got.AltitudeM != 75 || s.Len() != 2 {
		t.Fatalf("replacement grew the mission: %d items, alt %v", s.Len(), got.AltitudeM)
	}
}

func TestStoreUpsertRTL(t *testing.T) {
	s := NewStore(nil)
	rtl := types.MissionItem{CommandType: types.CommandRTL, AltitudeM: 50}
	if _, _, err := s.UpsertRTL(rtl, 0); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	s.Add(wp(100), 1, 0)

	// Replacing must also re-home the RTL to the tail.
	_, replaced, err := s.UpsertRTL(rtl, 0)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if !replaced {
		t.Fatal("expected replacement")
	}
	last := s.Mission().Items[s.Len()-1]
	if last.CommandType != types.CommandRTL {
		t.Fatalf("rtl not at tail: %v", last.CommandType)
	}
}

func TestStoreRestore(t *testing.T) {
	s := NewStore(nil)
	s.Add(wp(10), 0, 0)
	s.MarkValidated()
	snap := s.Snapshot()

	s.Add(wp(20), 0, 0)
	if s.Validated() {
		t.Fatal("mutation should clear the validated flag")
	}

	s.Restore(snap, true)
	if s.Len() != 1 || !s.Validated() {
		t.Fatalf("restore did not roll back: %d items, validated=%v", s.Len(), s.Validated())
	}
}
