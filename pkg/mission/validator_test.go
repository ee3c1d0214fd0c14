package mission

import (
	"strings"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

func originConfig() *config.Config {
	cfg := config.Default()
	cfg.Takeoff.Latitude = 47.397742
	cfg.Takeoff.Longitude = 8.545594
	return cfg
}

func item(ct types.CommandType, alt float64) types.MissionItem {
	it := types.MissionItem{CommandType: ct, Latitude: 47.4, Longitude: 8.5, AltitudeM: alt}
	if ct == types.CommandLoiter || ct == types.CommandSurvey {
		it.RadiusM = 100
	}
	return it
}

func hasCheck(r Report, check string, sev types.Severity) bool {
	for _, is := range r.Issues {
		if is.Check == check && is.Severity == sev {
			return true
		}
	}
	return false
}

func TestPipelineEmptyMissionFatal(t *testing.T) {
	s := NewStore(nil)
	r := NewPipeline(originConfig(), types.ModeMission).Run(s)
	if len(r.Fatal()) == 0 {
		t.Fatal("empty mission should be fatal in mission mode")
	}
	if s.Validated() {
		t.Fatal("store marked validated despite fatal issue")
	}
}

func TestPipelineAutofixesPresence(t *testing.T) {
	s := NewStore(nil)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)

	r := NewPipeline(originConfig(), types.ModeMission).Run(s)
	if len(r.Fatal()) != 0 {
		t.Fatalf("unexpected fatal issues: %v", r.Messages())
	}
	if !hasCheck(r, "takeoff_presence", types.SeverityAutofix) {
		t.Fatalf("takeoff not autofixed: %v", r.Messages())
	}
	if !hasCheck(r, "rtl_presence", types.SeverityAutofix) {
		t.Fatalf("rtl not autofixed: %v", r.Messages())
	}

	items := s.Mission().Items
	if len(items) != 3 {
		t.Fatalf("expected 3 items after autofix, got %d", len(items))
	}
	if items[0].CommandType != types.CommandTakeoff || items[2].CommandType != types.CommandRTL {
		t.Fatalf("autofix placed items wrong: %v %v", items[0].CommandType, items[2].CommandType)
	}
	if !s.Validated() {
		t.Fatal("store not marked validated after clean run")
	}
}

func TestPipelineNoOriginLeavesWarning(t *testing.T) {
	cfg := config.Default() // origin (0,0) means unconfigured
	s := NewStore(nil)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)

	r := NewPipeline(cfg, types.ModeMission).Run(s)
	if !hasCheck(r, "takeoff_presence", types.SeverityWarning) {
		t.Fatalf("expected takeoff warning without a configured origin: %v", r.Messages())
	}
	if s.Mission().TakeoffIndex() >= 0 {
		t.Fatal("takeoff inserted despite unconfigured origin")
	}
}

func TestAdvisoryDoesNotAutofix(t *testing.T) {
	s := NewStore(nil)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)

	r := NewAdvisory(originConfig(), types.ModeMission).Run(s)
	if s.Len() != 1 {
		t.Fatalf("advisory run mutated the mission: %d items", s.Len())
	}
	if !hasCheck(r, "takeoff_presence", types.SeverityWarning) || !hasCheck(r, "rtl_presence", types.SeverityWarning) {
		t.Fatalf("expected presence warnings: %v", r.Messages())
	}
}

func TestOrderingFatals(t *testing.T) {
	s := NewStore(nil)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)
	to := item(types.CommandTakeoff, 50)
	s.Add(to, 0, 0) // takeoff as second item
	rtl := types.MissionItem{CommandType: types.CommandRTL, AltitudeM: 50}
	s.Add(rtl, 1, 0) // rtl jammed at the head

	r := NewAdvisory(originConfig(), types.ModeMission).Run(s)
	if !hasCheck(r, "takeoff_first", types.SeverityFatal) {
		t.Fatalf("misplaced takeoff not fatal: %v", r.Messages())
	}
	if !hasCheck(r, "rtl_last", types.SeverityFatal) {
		t.Fatalf("misplaced rtl not fatal: %v", r.Messages())
	}
}

func TestCommandModeDowngradesFatals(t *testing.T) {
	s := NewStore(nil)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)
	s.Add(item(types.CommandTakeoff, 50), 0, 0)

	r := NewAdvisory(originConfig(), types.ModeCommand).Run(s)
	if len(r.Fatal()) != 0 {
		t.Fatalf("command mode should not produce fatals: %v", r.Messages())
	}
	if !hasCheck(r, "takeoff_first", types.SeverityWarning) {
		t.Fatalf("expected downgraded warning: %v", r.Messages())
	}
	if !s.Validated() {
		t.Fatal("command-mode run with no fatals should validate")
	}
}

func TestBoundsChecks(t *testing.T) {
	s := NewStore(nil)
	s.Add(item(types.CommandTakeoff, 50), 0, 0)
	bad := item(types.CommandLoiter, 0) // zero altitude
	bad.RadiusM = -5
	bad.Latitude = 95
	s.Add(bad, 0, 0)
	s.Add(types.MissionItem{CommandType: types.CommandRTL, AltitudeM: 0}, 0, 0)

	r := NewAdvisory(originConfig(), types.ModeMission).Run(s)
	fatals := r.Fatal()
	if len(fatals) != 3 {
		t.Fatalf("want 3 bounds fatals (altitude, radius, coordinate), got %d: %v", len(fatals), r.Messages())
	}
	for _, is := range fatals {
		if is.Check != "bounds" {
			t.Fatalf("unexpected check %q", is.Check)
		}
	}

	// RTL at zero altitude is allowed; nothing should mention item 2.
	for _, msg := range r.Messages() {
		if strings.Contains(msg, "item 2") {
			t.Fatalf("rtl at zero altitude flagged: %v", msg)
		}
	}
}

func TestCapacityCheck(t *testing.T) {
	cfg := originConfig()
	cfg.Agent.AutoAddMissingTakeoff = false
	cfg.Agent.AutoAddMissingRTL = false
	cfg.Agent.MaxMissionItems = 2

	s := NewStore(nil)
	s.Add(item(types.CommandTakeoff, 50), 0, 0)
	s.Add(item(types.CommandWaypoint, 100), 0, 0)
	s.Add(types.MissionItem{CommandType: types.CommandRTL, AltitudeM: 50}, 0, 0)

	r := NewAdvisory(cfg, types.ModeMission).Run(s)
	if !hasCheck(r, "capacity", types.SeverityFatal) {
		t.Fatalf("capacity overflow not fatal: %v", r.Messages())
	}
}

func TestDetectionWarning(t *testing.T) {
	s := NewStore(nil)
	it := item(types.CommandWaypoint, 100)
	it.DetectionBehavior = types.DetectAndMonitor
	s.Add(it, 0, 0)

	r := NewAdvisory(originConfig(), types.ModeMission).Run(s)
	if !hasCheck(r, "detection", types.SeverityWarning) {
		t.Fatalf("detection behavior without target not warned: %v", r.Messages())
	}
}
