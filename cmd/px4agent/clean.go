package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/px4-agent-org/px4-agent/pkg/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove persisted mission data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Printf("removing %s\n", cfg.MissionDir)
		if err := os.RemoveAll(cfg.MissionDir); err != nil {
			return fmt.Errorf("clean mission data: %w", err)
		}
		return nil
	},
}
