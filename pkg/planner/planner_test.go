package planner

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/approval"
	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/mission"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

const (
	originLat = 47.397742
	originLon = 8.545594
)

func testPlanner(t *testing.T, mode types.SessionMode) *Planner {
	t.Helper()
	cfg := config.Default()
	cfg.Takeoff.Latitude = originLat
	cfg.Takeoff.Longitude = originLon

	missions := store.NewFSStore(filepath.Join(t.TempDir(), "missions"))
	if err := missions.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(config.NewStore(cfg), missions, mode)
}

func altitude(v float64, unit string) *geo.Measurement {
	u, _ := geo.NormalizeUnit(unit)
	return &geo.Measurement{Value: v, Unit: u}
}

func TestBuildMissionScenario(t *testing.T) {
	p := testPlanner(t, types.ModeMission)

	// Take off to 150 feet over the configured origin.
	res, err := p.AddCommand(types.CommandTakeoff, AddParams{
		Fields: mission.Partial{Altitude: altitude(150, "feet")},
	})
	if err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("takeoff rejected: %s", res.Message)
	}
	takeoff := res.Items[0]
	if takeoff.Latitude != originLat || takeoff.Longitude != originLon {
		t.Fatalf("takeoff not at origin: %v,%v", takeoff.Latitude, takeoff.Longitude)
	}
	if takeoff.AltitudeM < 45.7 || takeoff.AltitudeM > 45.8 {
		t.Fatalf("150 feet stored as %v meters", takeoff.AltitudeM)
	}
	if takeoff.AltitudeUnits != "feet" {
		t.Fatalf("display units lost: %q", takeoff.AltitudeUnits)
	}

	// Fly 2 miles north of the last item.
	north := types.RelativePosition(geo.ToMeters(2, "miles"), 0, types.FrameLastWaypoint)
	res, err = p.AddCommand(types.CommandWaypoint, AddParams{Position: &north})
	if err != nil {
		t.Fatalf("waypoint failed: %v", err)
	}
	wp := res.Items[0]
	if wp.Latitude <= takeoff.Latitude {
		t.Fatalf("northbound waypoint latitude %v not above takeoff %v", wp.Latitude, takeoff.Latitude)
	}
	if wp.AltitudeM != 100 {
		t.Fatalf("waypoint altitude %v, want configured default 100", wp.AltitudeM)
	}

	// Come home.
	res, err = p.AddCommand(types.CommandRTL, AddParams{})
	if err != nil {
		t.Fatalf("rtl failed: %v", err)
	}
	rtl := res.Items[0]
	if rtl.Latitude != takeoff.Latitude || rtl.Longitude != takeoff.Longitude {
		t.Fatalf("rtl does not point home: %v,%v", rtl.Latitude, rtl.Longitude)
	}

	items := p.Snapshot().Items
	if len(items) != 3 {
		t.Fatalf("want 3 items, got %d", len(items))
	}
	order := []types.CommandType{types.CommandTakeoff, types.CommandWaypoint, types.CommandRTL}
	for i, want := range order {
		if items[i].CommandType != want || items[i].Seq != i {
			t.Fatalf("item %d is %s seq %d", i, items[i].CommandType, items[i].Seq)
		}
	}
}

func TestAddSecondTakeoffReplaces(t *testing.T) {
	p := testPlanner(t, types.ModeMission)

	if _, err := p.AddCommand(types.CommandTakeoff, AddParams{}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	res, err := p.AddCommand(types.CommandTakeoff, AddParams{
		Fields: mission.Partial{Altitude: altitude(80, "meters")},
	})
	if err != nil {
		t.Fatalf("second takeoff failed: %v", err)
	}
	if len(p.Snapshot().Items) != 1 {
		t.Fatalf("replacement grew the mission to %d items", len(p.Snapshot().Items))
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "replaced the existing takeoff") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no replacement warning in %v", res.Warnings)
	}
	if got := p.Snapshot().Items[0].AltitudeM; got != 80 {
		t.Fatalf("replacement altitude %v, want 80", got)
	}
}

func TestRollbackOnInvalidPostState(t *testing.T) {
	p := testPlanner(t, types.ModeMission)

	if _, err := p.AddCommand(types.CommandTakeoff, AddParams{}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	if _, err := p.AddCommand(types.CommandRTL, AddParams{}); err != nil {
		t.Fatalf("rtl failed: %v", err)
	}
	// The waypoint slots in front of the existing RTL.
	if _, err := p.AddCommand(types.CommandWaypoint, AddParams{}); err != nil {
		t.Fatalf("waypoint failed: %v", err)
	}
	before := p.Snapshot()
	if before.Items[2].CommandType != types.CommandRTL {
		t.Fatalf("waypoint was not inserted before the rtl: %v", before.Items)
	}

	// Dragging RTL into the middle must be rolled back whole.
	res, err := p.MoveItem(2, 1)
	if err != nil {
		t.Fatalf("move errored instead of reporting: %v", err)
	}
	if res.Success {
		t.Fatal("invalid move reported success")
	}
	after := p.Snapshot()
	if len(after.Items) != len(before.Items) {
		t.Fatalf("rollback lost items: %d vs %d", len(after.Items), len(before.Items))
	}
	for i := range after.Items {
		if after.Items[i].CommandType != before.Items[i].CommandType {
			t.Fatalf("rollback changed order at %d: %s vs %s",
				i, after.Items[i].CommandType, before.Items[i].CommandType)
		}
	}
}

func TestTakeoffDisplacementRejected(t *testing.T) {
	p := testPlanner(t, types.ModeMission)

	if _, err := p.AddCommand(types.CommandTakeoff, AddParams{}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	if _, err := p.AddCommand(types.CommandWaypoint, AddParams{}); err != nil {
		t.Fatalf("waypoint failed: %v", err)
	}
	if _, err := p.AddCommand(types.CommandRTL, AddParams{}); err != nil {
		t.Fatalf("rtl failed: %v", err)
	}

	// Presence gaps only warn, but a takeoff off the head is blocking.
	res, err := p.MoveItem(0, 1)
	if err != nil {
		t.Fatalf("move errored: %v", err)
	}
	if res.Success {
		t.Fatal("takeoff displacement reported success")
	}
	if p.Snapshot().Items[0].CommandType != types.CommandTakeoff {
		t.Fatal("rollback did not restore takeoff to the head")
	}
}

func TestCommandModeNeverBlocks(t *testing.T) {
	p := testPlanner(t, types.ModeCommand)

	if _, err := p.AddCommand(types.CommandTakeoff, AddParams{}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}
	if _, err := p.AddCommand(types.CommandWaypoint, AddParams{}); err != nil {
		t.Fatalf("waypoint failed: %v", err)
	}

	// The same displacement that blocks in mission mode only warns here.
	res, err := p.MoveItem(0, 1)
	if err != nil {
		t.Fatalf("move errored: %v", err)
	}
	if !res.Success {
		t.Fatalf("command mode blocked a mutation: %s", res.Message)
	}
}

func TestUpdateItem(t *testing.T) {
	p := testPlanner(t, types.ModeMission)
	if _, err := p.AddCommand(types.CommandTakeoff, AddParams{}); err != nil {
		t.Fatalf("takeoff failed: %v", err)
	}

	heading := "southeast"
	res, err := p.UpdateItem(0, UpdateParams{
		Fields: mission.Partial{
			Altitude: altitude(200, "feet"),
			Heading:  &heading,
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got := res.Items[0]
	if got.AltitudeM < 60.9 || got.AltitudeM > 61 {
		t.Fatalf("200 feet stored as %v meters", got.AltitudeM)
	}
	if got.HeadingDeg == nil || *got.HeadingDeg != 135 {
		t.Fatalf("heading = %v, want 135", got.HeadingDeg)
	}

	// Clear the heading again.
	res, err = p.UpdateItem(0, UpdateParams{ClearFields: []string{"heading"}})
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if res.Items[0].HeadingDeg != nil {
		t.Fatal("heading not cleared")
	}

	if _, err := p.UpdateItem(0, UpdateParams{ClearFields: []string{"altitude"}}); err == nil {
		t.Fatal("altitude should not be clearable")
	}
}

func TestDeleteRenumbers(t *testing.T) {
	p := testPlanner(t, types.ModeMission)
	p.AddCommand(types.CommandTakeoff, AddParams{})
	p.AddCommand(types.CommandWaypoint, AddParams{})
	p.AddCommand(types.CommandWaypoint, AddParams{})

	res, err := p.DeleteItem(1)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("delete rejected: %s", res.Message)
	}
	for i, it := range p.Snapshot().Items {
		if it.Seq != i {
			t.Fatalf("seq not contiguous after delete: item %d has seq %d", i, it.Seq)
		}
	}
}

func TestApprovalFlow(t *testing.T) {
	p := testPlanner(t, types.ModeMission)
	ctx := context.Background()

	p.AddCommand(types.CommandTakeoff, AddParams{})
	p.AddCommand(types.CommandWaypoint, AddParams{})
	p.AddCommand(types.CommandRTL, AddParams{})

	res, err := p.ShowForApproval()
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("show rejected: %s %v", res.Message, res.Warnings)
	}
	if p.State() != approval.StateUnderReview {
		t.Fatalf("state = %v, want under_review", p.State())
	}

	rec, err := p.Approve(ctx, "session_1")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if p.State() != approval.StateApproved {
		t.Fatalf("state = %v, want approved", p.State())
	}
	if len(rec.Items) != 3 {
		t.Fatalf("record holds %d items", len(rec.Items))
	}
}

func TestShowForApprovalAutofixes(t *testing.T) {
	p := testPlanner(t, types.ModeMission)

	// Only a waypoint; the strict run must insert takeoff and RTL.
	if _, err := p.AddCommand(types.CommandWaypoint, AddParams{}); err != nil {
		t.Fatalf("waypoint failed: %v", err)
	}

	res, err := p.ShowForApproval()
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("show rejected: %v", res.Warnings)
	}
	items := p.Snapshot().Items
	if len(items) != 3 {
		t.Fatalf("autofix did not complete the mission: %d items", len(items))
	}
	if items[0].CommandType != types.CommandTakeoff || items[2].CommandType != types.CommandRTL {
		t.Fatalf("autofix order wrong: %v", items)
	}
}

func TestRejectFeedbackSurfaces(t *testing.T) {
	p := testPlanner(t, types.ModeMission)
	p.AddCommand(types.CommandTakeoff, AddParams{})
	p.AddCommand(types.CommandRTL, AddParams{})

	if res, _ := p.ShowForApproval(); !res.Success {
		t.Fatalf("show rejected: %v", res.Warnings)
	}
	if err := p.Reject("fly higher"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if p.State() != approval.StateBuilding {
		t.Fatalf("state = %v, want building", p.State())
	}
	fb := p.Feedback()
	if len(fb) != 1 || fb[0] != "fly higher" {
		t.Fatalf("feedback = %v", fb)
	}
	if !strings.Contains(p.Summary(), "fly higher") {
		t.Fatal("summary does not surface reviewer feedback")
	}
}

func TestClearResetsEverything(t *testing.T) {
	p := testPlanner(t, types.ModeMission)
	p.AddCommand(types.CommandTakeoff, AddParams{})
	p.Clear()
	if len(p.Snapshot().Items) != 0 {
		t.Fatal("clear left items behind")
	}
	if p.State() != approval.StateBuilding {
		t.Fatalf("state = %v, want building", p.State())
	}
}
