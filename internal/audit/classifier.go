package audit

import (
	"fmt"
	"strings"
)

// JobFailed reports whether a job status string counts as a failure.
// An unreported status (empty string), success, and an intentional skip
// are all non-failures.
func JobFailed(status string) bool {
	return status != "" && status != StatusSuccess && status != StatusSkipped
}

// Classify merges job statuses and collected evidence into a failure
// verdict. Rules are evaluated in a fixed order and each contributes at
// most one reason; the resulting order is surfaced verbatim to humans and
// must stay stable:
//
//  1. rate-limited runs short-circuit to "no failures"
//  2. agent execution job status
//  3. output execution job status
//  4. recorded permission issues
//  5. errored execution metrics
//  6. failed output validation results
func Classify(jobs JobStatuses, data Data) FailureInfo {
	// Rate limiting is an expected, intentional skip, not a fault.
	if jobs.RateLimited {
		return FailureInfo{}
	}

	var reasons []string

	if JobFailed(jobs.Agent) {
		reasons = append(reasons, fmt.Sprintf("Agent execution failed (%s)", jobs.Agent))
	}
	if JobFailed(jobs.ExecuteOutputs) {
		reasons = append(reasons, fmt.Sprintf("Output execution failed (%s)", jobs.ExecuteOutputs))
	}
	if n := len(data.PermissionIssues); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Permission/validation issues detected (%d)", n))
	}
	if data.Metrics != nil && data.Metrics.IsError {
		reasons = append(reasons, "Claude execution returned an error")
	}
	if failed := failedOutputTypes(data.OutputResults); len(failed) > 0 {
		reasons = append(reasons, fmt.Sprintf("Output validation failed for: %s", strings.Join(failed, ", ")))
	}

	return FailureInfo{
		HasFailures: len(reasons) > 0,
		Reasons:     reasons,
	}
}

// failedOutputTypes returns the output types of failed results in
// collection order.
func failedOutputTypes(results []OutputValidationResult) []string {
	var types []string
	for _, r := range results {
		if !r.Success {
			types = append(types, r.OutputType)
		}
	}
	return types
}
