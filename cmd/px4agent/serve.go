package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/px4-agent-org/px4-agent/pkg/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "serve starts the mission planning API: sessions, approval and settings endpoints.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := buildRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.cleanup()

		cfg := rt.cfg.Snapshot()
		server := api.NewServer(api.Config{
			Addr:        cfg.HTTP.Addr,
			APIKey:      cfg.HTTP.APIKey,
			DevMode:     cfg.DevMode,
			DefaultMode: defaultMode(cfg),
		}, rt.sessions, rt.cfg, rt.missions, rt.log)

		httpSrv := &http.Server{Addr: server.Addr(), Handler: server.Engine()}
		go func() {
			<-ctx.Done()
			_ = httpSrv.Shutdown(context.Background())
		}()

		rt.log.Info("http api listening", "addr", server.Addr())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		rt.log.Info("http api stopped")
		return nil
	},
}
