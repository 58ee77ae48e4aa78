package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/bundle"
	"github.com/Iron-Ham/clauditor/internal/config"
	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/Iron-Ham/clauditor/internal/report"
	"github.com/spf13/cobra"
)

// TotalsArtifactName is the result file produced by the totals command.
const TotalsArtifactName = "audit-totals.json"

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Aggregate per-agent result bundles into run totals",
	Long: `Discover agent result bundles under the bundles directory, read each
bundle's metrics and tool-usage records, and compute per-agent summaries
plus run-wide totals (agent count, cost, failed agents).

Bundles with missing or unparseable records still count toward the agent
total; their absent metrics simply contribute zero cost.`,
	RunE: runTotals,
}

var (
	totalsBundlesDir  string
	totalsJobResults  string
	totalsArtifactDir string
)

func init() {
	totalsCmd.Flags().StringVar(&totalsBundlesDir, "bundles-dir", "", "directory scanned for agent result bundles")
	totalsCmd.Flags().StringVar(&totalsJobResults, "job-results", "", "path to a JSON object mapping agent slug to job status")
	totalsCmd.Flags().StringVar(&totalsArtifactDir, "artifact-dir", "", "directory for produced artifacts")
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	log := logger.WithStage("totals")

	bundlesDir := totalsBundlesDir
	if bundlesDir == "" {
		bundlesDir = cfg.Records.BundlesDir
	}
	artifactDir := totalsArtifactDir
	if artifactDir == "" {
		artifactDir = cfg.Artifact.Dir
	}

	jobResults := loadJobResults(totalsJobResults, log)
	summaries, totals := bundle.Aggregate(bundlesDir, jobResults, log)

	failed := totals.FailedAgents
	if failed == nil {
		failed = []string{}
	}
	failedJSON, _ := json.Marshal(failed)

	result := audit.NewResult()
	result.SetBool(audit.OutputHasFailures, len(totals.FailedAgents) > 0)
	result.Set(audit.OutputTotalAgents, strconv.Itoa(totals.TotalAgents))
	result.Set(audit.OutputTotalCost, report.FormatCostValue(totals.TotalCostUSD))
	result.Set(audit.OutputFailedAgents, string(failedJSON))

	if err := os.MkdirAll(artifactDir, 0755); err != nil {
		log.Error("failed to create artifact directory", "error", err)
	} else {
		totalsPath := filepath.Join(artifactDir, TotalsArtifactName)
		if err := result.WriteJSON(totalsPath); err != nil {
			log.Error("failed to write totals artifact", "error", err)
		} else {
			result.AddArtifact("audit-totals", totalsPath)
		}
	}
	emitOutputs(result, log)

	printTotalsSummary(summaries, totals)
	return nil
}

// loadJobResults reads the external slug-to-status mapping. A missing or
// unparseable file yields an empty mapping, which defaults every agent to
// success.
func loadJobResults(path string, log *logging.Logger) map[string]string {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Debug("job results not readable", "path", path, "error", err)
		return nil
	}
	results := make(map[string]string)
	if err := json.Unmarshal(raw, &results); err != nil {
		log.Debug("job results not parseable", "path", path, "error", err)
		return nil
	}
	return results
}

func printTotalsSummary(summaries []bundle.AgentSummary, totals bundle.RunTotals) {
	fmt.Println()
	fmt.Println(headingStyle.Render("RUN TOTALS"))
	fmt.Printf("  Agents: %d\n", totals.TotalAgents)
	fmt.Printf("  Cost:   %s\n", report.FormatCost(totals.TotalCostUSD))
	fmt.Printf("  Turns:  %d\n", totals.TotalTurns)

	if len(summaries) > 0 {
		fmt.Println()
		fmt.Println(headingStyle.Render("AGENTS"))
		for _, s := range summaries {
			cost := "-"
			if s.Metrics != nil {
				cost = report.FormatCost(s.Metrics.TotalCostUSD)
			}
			fmt.Printf("  %s %-30s %s\n", renderTag(report.StatusTag(s.JobResult)), s.DisplayName, cost)
		}
	}

	if len(totals.FailedAgents) > 0 {
		fmt.Println()
		fmt.Println(failStyle.Render("Failed agents:"))
		for _, name := range totals.FailedAgents {
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Println()
}
