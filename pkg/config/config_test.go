package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Agent.MaxMissionItems != 25 {
		t.Fatalf("max mission items = %d, want 25", cfg.Agent.MaxMissionItems)
	}
	if !cfg.Agent.AutoValidate || !cfg.Agent.AutoCompleteParameters {
		t.Fatal("auto behaviors should default on")
	}
	if cfg.Agent.Takeoff.Altitude != 50 || cfg.Agent.Survey.Radius != 400 {
		t.Fatalf("per-type defaults wrong: %+v", cfg.Agent)
	}
	if cfg.Mode != "mission" {
		t.Fatalf("default mode = %q", cfg.Mode)
	}
	if cfg.Takeoff.Latitude != 0 || cfg.Takeoff.Longitude != 0 {
		t.Fatal("origin should default unconfigured")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: DEBUG
mode: command
takeoff_defaults:
  latitude: 47.397742
  longitude: 8.545594
  heading: east
  altitude: 60
agent:
  max_mission_items: 10
  waypoint:
    altitude: 250
    altitude_units: feet
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != "DEBUG" || cfg.Mode != "command" {
		t.Fatalf("top-level fields: %q %q", cfg.LogLevel, cfg.Mode)
	}
	if cfg.Takeoff.Latitude != 47.397742 || cfg.Takeoff.Heading != "east" {
		t.Fatalf("takeoff defaults: %+v", cfg.Takeoff)
	}
	if cfg.Agent.MaxMissionItems != 10 {
		t.Fatalf("max mission items = %d", cfg.Agent.MaxMissionItems)
	}
	if cfg.Agent.Waypoint.Altitude != 250 || cfg.Agent.Waypoint.AltitudeUnits != "feet" {
		t.Fatalf("waypoint defaults: %+v", cfg.Agent.Waypoint)
	}
	// Sections the file does not touch keep their defaults.
	if cfg.Agent.Loiter.Radius != 120 {
		t.Fatalf("untouched loiter radius = %v", cfg.Agent.Loiter.Radius)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad mode", "mode: freestyle\n"},
		{"latitude out of range", "takeoff_defaults:\n  latitude: 95\n"},
		{"negative item cap", "agent:\n  max_mission_items: -3\n"},
		{"bad detection behavior", "agent:\n  default_detection_behavior: explode\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("schema violation accepted")
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PX4AGENT_LOG_LEVEL", "ERROR")
	path := writeConfig(t, "log_level: INFO\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != "ERROR" {
		t.Fatalf("env override lost: %q", cfg.LogLevel)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore(Default())
	before := s.Snapshot()

	s.Update(func(c *Config) { c.Agent.MaxMissionItems = 5 })

	if before.Agent.MaxMissionItems != 25 {
		t.Fatal("update mutated an already handed out snapshot")
	}
	if s.Snapshot().Agent.MaxMissionItems != 5 {
		t.Fatal("update not visible in the next snapshot")
	}
}

func TestUpdateTakeoffDefaults(t *testing.T) {
	s := NewStore(Default())
	lat, lon := 47.397742, 8.545594
	heading := "southwest"

	cfg, err := s.UpdateTakeoffDefaults(TakeoffPatch{Latitude: &lat, Longitude: &lon, Heading: &heading})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if cfg.Takeoff.Latitude != lat || cfg.Takeoff.Heading != "southwest" {
		t.Fatalf("patch not applied: %+v", cfg.Takeoff)
	}

	badLat := 120.0
	if _, err := s.UpdateTakeoffDefaults(TakeoffPatch{Latitude: &badLat}); err == nil {
		t.Fatal("invalid latitude accepted")
	}
	badHeading := "up"
	if _, err := s.UpdateTakeoffDefaults(TakeoffPatch{Heading: &badHeading}); err == nil {
		t.Fatal("invalid heading accepted")
	}
	// The failed patches must not have half-applied.
	if s.Snapshot().Takeoff.Latitude != lat {
		t.Fatalf("failed patch leaked: %v", s.Snapshot().Takeoff.Latitude)
	}
}

func TestUpdateCurrentAction(t *testing.T) {
	s := NewStore(Default())

	badType := "hover"
	if _, err := s.UpdateCurrentAction(CurrentActionPatch{Type: &badType}); err == nil {
		t.Fatal("invalid action type accepted")
	}

	typ, target := "loiter", "stranded hiker"
	cfg, err := s.UpdateCurrentAction(CurrentActionPatch{Type: &typ, SearchTarget: &target})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if cfg.CurrentAction.Type != "loiter" || cfg.CurrentAction.SearchTarget != target {
		t.Fatalf("patch not applied: %+v", cfg.CurrentAction)
	}
}

func TestGetActiveProviderExplicit(t *testing.T) {
	cfg := Default()
	cfg.ActiveProvider = "openai"
	cfg.Providers["openai"] = ProviderConfig{Options: ProviderOptions{APIKey: "sk-test", Model: "gpt-4o-mini"}}

	id, opts, err := cfg.GetActiveProvider()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != "openai" || opts.Model != "gpt-4o-mini" {
		t.Fatalf("resolved %q %+v", id, opts)
	}
	// Defaults fill what the file omitted.
	if !strings.Contains(opts.BaseURL, "api.openai.com") {
		t.Fatalf("base URL default lost: %q", opts.BaseURL)
	}
}

func TestGetActiveProviderNone(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg := Default()
	if _, _, err := cfg.GetActiveProvider(); err == nil {
		t.Fatal("expected error with nothing configured")
	}
}
