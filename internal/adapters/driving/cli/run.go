package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process pending messages once and exit",
	Long: `Fetches all pending messages from the Telegram inbox, runs each one
through the capture pipeline, and acknowledges the batch. Designed to be
invoked on a schedule; each invocation is one poll cycle.`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := settings.ValidateRun(); err != nil {
		return err
	}

	pipeline, err := buildPipeline(settings)
	if err != nil {
		return err
	}

	report, err := pipeline.RunOnce(context.Background())
	if err != nil {
		return fmt.Errorf("capture run failed: %w", err)
	}

	if report.Fetched == 0 {
		cmd.Println("No pending messages.")
		return nil
	}

	cmd.Printf("Run %s: %d fetched, %d processed, %d skipped, %d failed.\n",
		report.RunID, report.Fetched, report.Processed, report.Skipped, report.Failed)
	return nil
}
