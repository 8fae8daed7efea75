package main

import (
	"fmt"
	"time"

	"github.com/genforge/genforge/internal/progress"
	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"
)

var statusCmd = &cobra.Command{
	Use:   "status <run-id>",
	Short: "Replay a generation run's progress log by run id",
	Long: `status opens the durable ProgressStream log and prints every event
recorded for run-id in sequence order, so a run that finished (or failed)
without a live subscriber attached can still be inspected afterward.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	runID := args[0]

	db, err := bolt.Open(cfg.Progress.BufferPath, 0644, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("status: opening progress store: %w", err)
	}
	defer db.Close()

	stream, err := progress.NewStream(db, runID, cfg.Progress.BufferSize)
	if err != nil {
		return fmt.Errorf("status: opening progress stream for run %s: %w", runID, err)
	}
	defer stream.Close()

	events, err := stream.Replay()
	if err != nil {
		return fmt.Errorf("status: replaying run %s: %w", runID, err)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintf(out, "no events recorded for run %s\n", runID)
		return nil
	}
	for _, evt := range events {
		fmt.Fprintf(out, "[%d] %s %s slot=%d attempt=%d %s\n",
			evt.Seq, evt.Timestamp.Format(time.RFC3339), evt.Type, evt.SlotIndex, evt.Attempt, evt.Message)
	}
	return nil
}
