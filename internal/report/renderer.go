package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/util"
)

// notAvailable is rendered for any field whose backing evidence is absent.
const notAvailable = "N/A"

// maxDetailLen bounds error/detail cells so a single pathological record
// cannot blow up the report table.
const maxDetailLen = 200

// Render produces the markdown audit report for one agent run. The header
// and Job Results sections are always present; every other section is
// emitted only when its backing evidence exists.
func Render(agentName string, rc RunContext, jobs audit.JobStatuses, data audit.Data, failures audit.FailureInfo) string {
	var b strings.Builder

	renderHeader(&b, agentName, rc)
	renderJobResults(&b, jobs)
	if data.Metrics != nil {
		renderMetrics(&b, data.Metrics)
	}
	if data.Validation != nil {
		renderValidation(&b, data.Validation)
	}
	if len(data.PermissionIssues) > 0 {
		renderPermissionIssues(&b, data.PermissionIssues)
	}
	if len(data.OutputResults) > 0 {
		renderOutputResults(&b, data.OutputResults)
	}
	if failures.HasFailures {
		renderErrors(&b, failures)
	}

	return b.String()
}

func renderHeader(b *strings.Builder, agentName string, rc RunContext) {
	fmt.Fprintf(b, "# Audit Report: %s\n\n", agentName)

	if url := rc.RunURL(); url != "" {
		fmt.Fprintf(b, "- **Run**: [#%d](%s)\n", rc.RunNumber, url)
	} else {
		fmt.Fprintf(b, "- **Run**: %s\n", notAvailable)
	}
	fmt.Fprintf(b, "- **Triggered by**: %s\n", orNA(rc.Actor))
	fmt.Fprintf(b, "- **Event**: %s\n", orNA(rc.EventName))

	ts := rc.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	fmt.Fprintf(b, "- **Timestamp**: %s\n\n", ts.UTC().Format(time.RFC3339))
}

func renderJobResults(b *strings.Builder, jobs audit.JobStatuses) {
	b.WriteString("## Job Results\n\n")
	b.WriteString("| Job | Status |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(b, "| Agent Execution | %s |\n", jobStatusCell(jobs.Agent))
	fmt.Fprintf(b, "| Output Execution | %s |\n", jobStatusCell(jobs.ExecuteOutputs))
	fmt.Fprintf(b, "| Context Collection | %s |\n", jobStatusCell(jobs.CollectContext))
	b.WriteString("\n")
}

// jobStatusCell formats a status as "{TAG} (raw)" or N/A when unreported.
func jobStatusCell(status string) string {
	if status == "" {
		return notAvailable
	}
	return fmt.Sprintf("%s (%s)", StatusTag(status), status)
}

func renderMetrics(b *strings.Builder, m *audit.ExecutionMetrics) {
	b.WriteString("## Execution Metrics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(b, "| Cost | %s |\n", FormatCost(m.TotalCostUSD))
	fmt.Fprintf(b, "| Turns | %d |\n", m.NumTurns)
	fmt.Fprintf(b, "| Duration | %s (API %s) |\n", FormatDuration(m.DurationMs), FormatDuration(m.DurationAPIMs))
	fmt.Fprintf(b, "| Session | %s |\n", orNA(m.SessionID))
	if m.InputTokens != nil || m.OutputTokens != nil {
		fmt.Fprintf(b, "| Tokens | %s in / %s out |\n", tokensCell(m.InputTokens), tokensCell(m.OutputTokens))
	}
	b.WriteString("\n")
}

func tokensCell(tokens *int64) string {
	if tokens == nil {
		return notAvailable
	}
	return FormatTokens(*tokens)
}

func renderValidation(b *strings.Builder, v *audit.ValidationStatus) {
	b.WriteString("## Validation Results\n\n")
	b.WriteString("| Check | Result |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(b, "| Secrets Check | %s |\n", checkCell(v.SecretsCheck))
	fmt.Fprintf(b, "| User Authorization | %s |\n", checkCell(v.UserAuthorization))
	fmt.Fprintf(b, "| Labels Check | %s |\n", checkCell(v.LabelsCheck))
	fmt.Fprintf(b, "| Rate Limit Check | %s |\n", checkCell(v.RateLimitCheck))
	b.WriteString("\n")
}

func checkCell(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func renderPermissionIssues(b *strings.Builder, issues []audit.PermissionIssue) {
	b.WriteString("## Permission Issues\n\n")
	for _, issue := range issues {
		fmt.Fprintf(b, "- [%s] %s — %s: %s\n",
			SeverityTag(issue.Severity), issue.IssueType, issue.Tool, issue.Message)
	}
	b.WriteString("\n")
}

func renderOutputResults(b *strings.Builder, results []audit.OutputValidationResult) {
	b.WriteString("## Output Execution\n\n")
	b.WriteString("| Output | Status | Detail |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, r := range results {
		tag := "OK"
		detail := "-"
		if !r.Success {
			tag = "FAIL"
			if r.Error != "" {
				detail = tableCell(r.Error)
			}
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", tableCell(r.OutputType), tag, detail)
	}
	b.WriteString("\n")
}

func renderErrors(b *strings.Builder, failures audit.FailureInfo) {
	b.WriteString("## Errors\n\n")
	for _, reason := range failures.Reasons {
		fmt.Fprintf(b, "- %s\n", reason)
	}
	b.WriteString("\n")
}

// tableCell makes a value safe for a markdown table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	return util.TruncateString(s, maxDetailLen)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
