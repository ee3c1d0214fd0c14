package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/llm/factory"
	"github.com/px4-agent-org/px4-agent/pkg/session"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// appRuntime is everything a command needs after wiring: the shared config
// store, the session service and the mission archive.
type appRuntime struct {
	cfg      *config.Store
	sessions *session.Service
	missions store.Store
	log      *slog.Logger
	cleanup  func()
}

func buildRuntime(ctx context.Context) (*appRuntime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	missions := store.NewFSStore(cfg.MissionDir)
	if err := missions.Open(ctx); err != nil {
		return nil, fmt.Errorf("open mission store: %w", err)
	}

	provider, providerID, opts, err := factory.NewProvider(ctx, cfg)
	if err != nil {
		missions.Close()
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	logger.Info("llm provider ready", "provider", providerID, "model", opts.Model)

	gateway := llm.NewGateway(provider, opts)
	cfgStore := config.NewStore(cfg)

	sessionFactory := session.NewFactory(cfgStore, missions, gateway, opts.Model, logger)
	sessions := session.NewService(sessionFactory, logger)

	return &appRuntime{
		cfg:      cfgStore,
		sessions: sessions,
		missions: missions,
		log:      logger,
		cleanup:  func() { missions.Close() },
	}, nil
}

func defaultMode(cfg *config.Config) types.SessionMode {
	if cfg.Mode == string(types.ModeCommand) {
		return types.ModeCommand
	}
	return types.ModeMission
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "VERBOSE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
