package main

import (
	"log/slog"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"verbose", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultMode(t *testing.T) {
	cfg := config.Default()
	if got := defaultMode(cfg); got != types.ModeMission {
		t.Fatalf("default mode = %v", got)
	}
	cfg.Mode = "command"
	if got := defaultMode(cfg); got != types.ModeCommand {
		t.Fatalf("command mode = %v", got)
	}
	cfg.Mode = "unknown"
	if got := defaultMode(cfg); got != types.ModeMission {
		t.Fatalf("unknown mode should fall back to mission, got %v", got)
	}
}
