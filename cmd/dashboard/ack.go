// cmd/dashboard/ack.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamzrod/dashboard-sync/internal/poller"
	"github.com/tamzrod/dashboard-sync/internal/reporter"
)

var ackCmd = &cobra.Command{
	Use:   "ack",
	Short: "Send an operator acknowledgement to the backend",
	Long: `Posts an acknowledgement without a running dashboard. Uses the API
and falls back to writing the request file.`,
}

var ackAccidentCmd = &cobra.Command{
	Use:   "accident",
	Short: `Report "I'm okay" for the accident response request`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendAck(cmd.Context(), "accident", (*reporter.Reporter).AcknowledgeAccident)
	},
}

var ackSpeakerCmd = &cobra.Command{
	Use:   "speaker",
	Short: "Ask the backend to stop the alarm speaker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendAck(cmd.Context(), "speaker", (*reporter.Reporter).AcknowledgeSpeaker)
	},
}

func sendAck(ctx context.Context, what string, fn func(*reporter.Reporter, context.Context) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, src, err := poller.Build(cfg.Dashboard, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := fn(reporter.New(src), ctx); err != nil {
		return fmt.Errorf("ack %s failed: %w", what, err)
	}

	fmt.Printf("Acknowledged %s (channel=%s)\n", what, src.Mode())
	return nil
}

func init() {
	rootCmd.AddCommand(ackCmd)
	ackCmd.AddCommand(ackAccidentCmd)
	ackCmd.AddCommand(ackSpeakerCmd)
}
