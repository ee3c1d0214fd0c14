package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/px4-agent-org/px4-agent/pkg/session"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

var planMode string

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Plan a mission from the terminal",
	Long: `plan starts an interactive planning session on stdin/stdout. With a
request argument it processes that single request and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := buildRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.cleanup()

		mode := defaultMode(rt.cfg.Snapshot())
		switch planMode {
		case "":
		case string(types.ModeMission):
			mode = types.ModeMission
		case string(types.ModeCommand):
			mode = types.ModeCommand
		default:
			return fmt.Errorf("mode must be mission or command, got %q", planMode)
		}

		sess, err := rt.sessions.Create(mode)
		if err != nil {
			return err
		}

		if len(args) > 0 {
			return runTurn(ctx, sess, strings.Join(args, " "))
		}

		fmt.Printf("session %s (%s mode); empty line to exit\n", sess.ID, sess.Mode)
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				return nil
			}
			if err := runTurn(ctx, sess, line); err != nil {
				return err
			}
		}
	},
}

func runTurn(ctx context.Context, sess *session.Session, content string) error {
	turn, err := sess.Message(ctx, content)
	if err != nil {
		return err
	}
	if turn.Reply != "" {
		fmt.Println(turn.Reply)
	}
	fmt.Println(turn.Summary)
	return nil
}

func init() {
	planCmd.Flags().StringVar(&planMode, "mode", "", "Session mode: mission or command")
}
