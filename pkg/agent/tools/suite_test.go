package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

type suiteEnv struct {
	exec    *tool.Executor
	planner *planner.Planner
}

func newSuiteEnv(t *testing.T) *suiteEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Takeoff.Latitude = 47.397742
	cfg.Takeoff.Longitude = 8.545594
	cfgStore := config.NewStore(cfg)

	missions := store.NewFSStore(filepath.Join(t.TempDir(), "missions"))
	if err := missions.Open(context.Background()); err != nil {
		t.Fatalf("open store: %v", err)
	}
	p := planner.New(cfgStore, missions, types.ModeMission)

	registry := tool.NewRegistry()
	exec := tool.NewExecutor(registry)
	if err := NewSuite(cfgStore, p).Register(exec, registry); err != nil {
		t.Fatalf("register suite: %v", err)
	}
	return &suiteEnv{exec: exec, planner: p}
}

func (e *suiteEnv) call(t *testing.T, name, args string) types.CallResult {
	t.Helper()
	res, err := e.exec.Execute(context.Background(), &types.ToolCall{ID: "c1", Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s errored: %v", name, err)
	}
	var cr types.CallResult
	if err := json.Unmarshal([]byte(res.Content), &cr); err != nil {
		t.Fatalf("%s returned non-CallResult content: %v", name, err)
	}
	return cr
}

func TestSuiteRegistersAllTools(t *testing.T) {
	env := newSuiteEnv(t)
	names := map[string]bool{}
	for _, def := range env.exec.List() {
		names[def.Name] = true
	}
	want := []string{
		"add_takeoff", "add_waypoint", "add_loiter", "add_survey", "add_rtl",
		"update_mission_item", "delete_mission_item", "move_mission_item",
		"show_mission_for_approval",
	}
	for _, n := range want {
		if !names[n] {
			t.Fatalf("tool %s not registered (have %v)", n, names)
		}
	}
	if len(names) != len(want) {
		t.Fatalf("unexpected extra tools: %v", names)
	}
}

func TestSuiteBuildsMissionFromJSON(t *testing.T) {
	env := newSuiteEnv(t)

	cr := env.call(t, "add_takeoff", `{"altitude": "150 feet"}`)
	if !cr.Success {
		t.Fatalf("takeoff rejected: %s", cr.Message)
	}

	cr = env.call(t, "add_waypoint", `{"distance": "2 miles", "heading": "north", "reference_frame": "last_waypoint"}`)
	if !cr.Success {
		t.Fatalf("waypoint rejected: %s", cr.Message)
	}
	if len(cr.Items) != 1 || cr.Items[0].CommandType != types.CommandWaypoint {
		t.Fatalf("unexpected items: %v", cr.Items)
	}

	cr = env.call(t, "add_rtl", `{}`)
	if !cr.Success {
		t.Fatalf("rtl rejected: %s", cr.Message)
	}

	items := env.planner.Snapshot().Items
	if len(items) != 3 || items[2].CommandType != types.CommandRTL {
		t.Fatalf("mission shape wrong: %v", items)
	}
	if items[1].Latitude <= items[0].Latitude {
		t.Fatalf("northbound waypoint latitude %v not above takeoff %v", items[1].Latitude, items[0].Latitude)
	}
}

func TestSuiteSurveyWithCorners(t *testing.T) {
	env := newSuiteEnv(t)

	env.call(t, "add_takeoff", `{}`)
	cr := env.call(t, "add_survey", `{
		"corners": [
			{"latitude": 47.40, "longitude": 8.50},
			{"latitude": 47.41, "longitude": 8.50},
			{"latitude": 47.41, "longitude": 8.51}
		],
		"search_target": "blue tent"
	}`)
	if !cr.Success {
		t.Fatalf("survey rejected: %s %v", cr.Message, cr.Warnings)
	}
	survey := cr.Items[0]
	if len(survey.SurveyCorners) != 3 {
		t.Fatalf("corners lost: %v", survey.SurveyCorners)
	}
	if survey.SearchTarget != "blue tent" || survey.DetectionBehavior != types.DetectTagAndContinue {
		t.Fatalf("search fields: %q %q", survey.SearchTarget, survey.DetectionBehavior)
	}
}

func TestSuiteArgumentErrorsAreResults(t *testing.T) {
	env := newSuiteEnv(t)

	cr := env.call(t, "add_waypoint", `{"latitude": 47.4, "longitude": 8.5, "mgrs": "33TWN"}`)
	if cr.Success {
		t.Fatal("conflicting placement accepted")
	}

	// Schema gate: latitude outside the declared range.
	cr = env.call(t, "add_waypoint", `{"latitude": 95, "longitude": 8.5}`)
	if cr.Success {
		t.Fatal("out-of-range latitude accepted")
	}
}

func TestSuiteEditAndApprove(t *testing.T) {
	env := newSuiteEnv(t)

	env.call(t, "add_takeoff", `{}`)
	env.call(t, "add_waypoint", `{"distance": 500, "heading": 90}`)
	env.call(t, "add_waypoint", `{"distance": 1000, "heading": 90}`)

	cr := env.call(t, "update_mission_item", `{"seq": 1, "altitude": "250 feet"}`)
	if !cr.Success {
		t.Fatalf("update rejected: %s", cr.Message)
	}
	if alt := cr.Items[0].AltitudeM; alt < 76 || alt > 76.3 {
		t.Fatalf("250 feet stored as %v meters", alt)
	}

	cr = env.call(t, "delete_mission_item", `{"seq": 2}`)
	if !cr.Success {
		t.Fatalf("delete rejected: %s", cr.Message)
	}

	cr = env.call(t, "delete_mission_item", `{"seq": 9}`)
	if cr.Success {
		t.Fatal("deleting a missing seq succeeded")
	}

	cr = env.call(t, "show_mission_for_approval", `{}`)
	if !cr.Success {
		t.Fatalf("approval gate rejected: %s %v", cr.Message, cr.Warnings)
	}
}
