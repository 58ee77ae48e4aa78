package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/clauditor/internal/agent"
	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/config"
	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/Iron-Ham/clauditor/internal/notify"
	"github.com/Iron-Ham/clauditor/internal/report"
	"github.com/Iron-Ham/clauditor/internal/tracker"
	"github.com/Iron-Ham/clauditor/internal/util"
	"github.com/spf13/cobra"
)

// Artifact file names produced by the audit command.
const (
	ReportArtifactName = "audit-report.md"
	ResultArtifactName = "audit-result.json"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit one agent run and notify on failure",
	Long: `Read the partial-result records for a single agent run, classify them
into a failure verdict, render the audit report, and (on failure) create
or update the deduplicated failure issue.

The command always exits zero: audit findings are reported through stage
outputs and artifacts, never through the exit code.`,
	RunE: runAudit,
}

var (
	auditAgentFile     string
	auditAgentName     string
	auditRecordDir     string
	auditArtifactDir   string
	auditAgentResult   string
	auditOutputsResult string
	auditContextResult string
	auditRateLimited   bool
	auditSkipIssue     bool
)

func init() {
	auditCmd.Flags().StringVar(&auditAgentFile, "agent-file", "", "path to the agent definition file")
	auditCmd.Flags().StringVar(&auditAgentName, "agent-name", "", "agent name override when no definition file is given")
	auditCmd.Flags().StringVar(&auditRecordDir, "record-dir", "", "base directory holding the record slots")
	auditCmd.Flags().StringVar(&auditArtifactDir, "artifact-dir", "", "directory for produced artifacts")
	auditCmd.Flags().StringVar(&auditAgentResult, "agent-result", "", "job status of the agent execution job")
	auditCmd.Flags().StringVar(&auditOutputsResult, "outputs-result", "", "job status of the output execution job")
	auditCmd.Flags().StringVar(&auditContextResult, "context-result", "", "job status of the context collection job")
	auditCmd.Flags().BoolVar(&auditRateLimited, "rate-limited", false, "the run was skipped due to rate limiting")
	auditCmd.Flags().BoolVar(&auditSkipIssue, "skip-issue", false, "never contact the issue tracker")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	recordDir := auditRecordDir
	if recordDir == "" {
		recordDir = cfg.Records.Dir
	}
	artifactDir := auditArtifactDir
	if artifactDir == "" {
		artifactDir = cfg.Artifact.Dir
	}

	def := loadDefinition(logger)
	log := logger.WithAgent(def.Name).WithStage("audit")

	jobs := config.JobStatuses(auditAgentResult, auditOutputsResult, auditContextResult, auditRateLimited)
	data := audit.Read(audit.DefaultLocations(recordDir), log)
	failures := audit.Classify(jobs, data)
	rc := config.RunContext()

	reportText := report.Render(def.Name, rc, jobs, data, failures)

	result := audit.NewResult()
	result.SetBool(audit.OutputHasFailures, failures.HasFailures || def.ParseError)
	if def.ParseError {
		result.SetBool(audit.OutputParseError, true)
	}

	if failures.HasFailures && def.Audit.IssuesEnabled() && !auditSkipIssue {
		dispatcher := notify.New(tracker.NewGitHubTracker(rc.Repository), cfg.Issues.DefaultLabel, log)
		outcome := dispatcher.NotifyFailure(def, reportText, failures)
		if outcome.Notified {
			result.Set(audit.OutputIssueURL, outcome.URL())
		}
	}

	if err := writeArtifacts(result, artifactDir, reportText, log); err != nil {
		// Artifact trouble is logged but never fails the stage.
		log.Error("failed to write artifacts", "error", err)
	}
	emitOutputs(result, log)

	printAuditSummary(def.Name, jobs, failures, result)
	return nil
}

// loadDefinition resolves the agent definition from the flag set. With no
// definition file the agent name flag (or a generic fallback) is used.
func loadDefinition(logger *logging.Logger) agent.Definition {
	if auditAgentFile != "" {
		return agent.Load(auditAgentFile, logger)
	}
	name := auditAgentName
	if name == "" {
		name = "agent"
	}
	return agent.Definition{Name: name}
}

// writeArtifacts persists the report and result files and registers them
// with the result.
func writeArtifacts(result *audit.Result, artifactDir, reportText string, log *logging.Logger) error {
	if err := os.MkdirAll(artifactDir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	reportPath := filepath.Join(artifactDir, ReportArtifactName)
	if err := os.WriteFile(reportPath, []byte(reportText), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	result.AddArtifact("audit-report", reportPath)
	log.Info("report written", "path", reportPath)

	resultPath := filepath.Join(artifactDir, ResultArtifactName)
	if err := result.WriteJSON(resultPath); err != nil {
		return err
	}
	result.AddArtifact("audit-result", resultPath)

	return nil
}

// emitOutputs appends the stage outputs to GITHUB_OUTPUT when running
// inside the pipeline.
func emitOutputs(result *audit.Result, log *logging.Logger) {
	outputPath := os.Getenv("GITHUB_OUTPUT")
	if outputPath == "" {
		return
	}
	if err := result.AppendGitHubOutput(outputPath); err != nil {
		log.Warn("failed to emit outputs", "error", err)
	}
}

func printAuditSummary(agentName string, jobs audit.JobStatuses, failures audit.FailureInfo, result *audit.Result) {
	fmt.Println()
	fmt.Println(headingStyle.Render("AUDIT: " + agentName))

	printJob := func(label, status string) {
		if status == "" {
			fmt.Printf("  %-20s %s\n", label, dimStyle.Render("N/A"))
			return
		}
		fmt.Printf("  %-20s %s (%s)\n", label, renderTag(report.StatusTag(status)), status)
	}
	printJob("Agent Execution", jobs.Agent)
	printJob("Output Execution", jobs.ExecuteOutputs)
	printJob("Context Collection", jobs.CollectContext)

	if failures.HasFailures {
		fmt.Println()
		fmt.Println(failStyle.Render("Failures:"))
		for _, reason := range failures.Reasons {
			fmt.Printf("  - %s\n", util.TruncateString(reason, 120))
		}
	} else {
		fmt.Println()
		fmt.Println(okStyle.Render("No failures detected"))
	}

	if url, ok := result.Outputs[audit.OutputIssueURL]; ok {
		fmt.Printf("\nIssue: %s\n", url)
	}
	fmt.Println()
}
