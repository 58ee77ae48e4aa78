package bundle

import (
	"path/filepath"

	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/Iron-Ham/clauditor/internal/util"
)

// AgentSummary is the per-agent view produced in multi-agent mode.
// Metrics and ToolUsage are nil when the bundle lacks those records.
type AgentSummary struct {
	AgentSlug   string
	DisplayName string
	RunID       string
	JobResult   string
	Metrics     *audit.ExecutionMetrics
	ToolUsage   *audit.ToolUsage
}

// RunTotals are the run-wide aggregates across all discovered bundles.
// FailedAgents preserves discovery order.
type RunTotals struct {
	TotalAgents  int
	TotalCostUSD float64
	TotalTurns   int
	FailedAgents []string
}

// Aggregate discovers bundles under bundlesDir and computes per-agent
// summaries plus run totals. An agent's failure status comes from
// jobResults (keyed by slug); an agent with no entry defaults to success.
// Bundles with absent metrics contribute zero cost, not an error.
func Aggregate(bundlesDir string, jobResults map[string]string, logger *logging.Logger) ([]AgentSummary, RunTotals) {
	bundles := Discover(bundlesDir, logger)

	summaries := make([]AgentSummary, 0, len(bundles))
	totals := RunTotals{TotalAgents: len(bundles)}

	for _, b := range bundles {
		result, ok := jobResults[b.AgentSlug]
		if !ok || result == "" {
			result = audit.StatusSuccess
		}

		summary := AgentSummary{
			AgentSlug:   b.AgentSlug,
			DisplayName: util.DisplayName(b.AgentSlug),
			RunID:       b.RunID,
			JobResult:   result,
			Metrics:     audit.ReadMetrics(filepath.Join(b.Dir, audit.MetricsFile), logger),
			ToolUsage:   audit.ReadToolUsage(filepath.Join(b.Dir, audit.ToolUsageFile), logger),
		}

		if summary.Metrics != nil {
			totals.TotalCostUSD += summary.Metrics.TotalCostUSD
			totals.TotalTurns += summary.Metrics.NumTurns
		}
		if audit.JobFailed(result) {
			totals.FailedAgents = append(totals.FailedAgents, summary.DisplayName)
		}

		summaries = append(summaries, summary)
	}

	return summaries, totals
}
