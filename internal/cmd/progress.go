package cmd

import (
	"fmt"

	"github.com/Iron-Ham/clauditor/internal/config"
	"github.com/Iron-Ham/clauditor/internal/notify"
	"github.com/Iron-Ham/clauditor/internal/tracker"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Update the progress comment for one stage transition",
	Long: `Update the progress-state comment tracking this agent run. The comment
is located through the dispatch context record; when no progress comment
exists the command is a logged no-op.

With --final-comment the comment's trailing content is replaced by the
given closing text instead of a stage-status update.

All tracker failures are logged and swallowed; the command always exits
zero.`,
	RunE: runProgress,
}

var (
	progressAgentName       string
	progressRunID           string
	progressStage           string
	progressStatus          string
	progressError           string
	progressFinalComment    string
	progressDispatchContext string
)

func init() {
	progressCmd.Flags().StringVar(&progressAgentName, "agent-name", "", "agent name for the progress comment header")
	progressCmd.Flags().StringVar(&progressRunID, "run-id", "", "pipeline run id")
	progressCmd.Flags().StringVar(&progressStage, "stage", "", "pipeline stage to update (setup, agent, outputs, audit)")
	progressCmd.Flags().StringVar(&progressStatus, "status", "", "new stage status (pending, running, success, failed, skipped)")
	progressCmd.Flags().StringVar(&progressError, "error", "", "optional error text to record")
	progressCmd.Flags().StringVar(&progressFinalComment, "final-comment", "", "closing text replacing the comment's trailing content")
	progressCmd.Flags().StringVar(&progressDispatchContext, "dispatch-context", "", "path to the dispatch context record")
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	log := logger.WithAgent(progressAgentName).WithRun(progressRunID).WithStage("progress")

	dc := notify.LoadDispatchContext(progressDispatchContext, log)
	rc := config.RunContext()
	dispatcher := notify.New(tracker.NewGitHubTracker(rc.Repository), cfg.Issues.DefaultLabel, log)

	if progressFinalComment != "" {
		dispatcher.FinalizeProgress(progressAgentName, progressRunID, progressFinalComment, dc)
		return nil
	}

	dispatcher.UpdateProgress(progressAgentName, progressRunID, progressStage, progressStatus, progressError, dc)
	return nil
}
