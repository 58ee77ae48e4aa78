// Package audit aggregates the partial-result records left behind by the
// stages of an agent automation pipeline and classifies them into a single
// failure verdict. Every piece of evidence is optional: a stage that did not
// run simply leaves no record, and the absence of a record is never an error.
package audit

// Job status strings reported by the outer pipeline for each stage job.
const (
	StatusSuccess   = "success"
	StatusFailure   = "failure"
	StatusSkipped   = "skipped"
	StatusCancelled = "cancelled"
)

// Permission issue severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// ExecutionMetrics is the summary record written by the agent execution
// stage. It mirrors the result object emitted by Claude Code.
type ExecutionMetrics struct {
	TotalCostUSD  float64 `json:"total_cost_usd"`
	NumTurns      int     `json:"num_turns"`
	DurationMs    int64   `json:"duration_ms"`
	DurationAPIMs int64   `json:"duration_api_ms"`
	SessionID     string  `json:"session_id"`
	IsError       bool    `json:"is_error"`
	InputTokens   *int64  `json:"input_tokens,omitempty"`
	OutputTokens  *int64  `json:"output_tokens,omitempty"`
}

// ToolCallStats counts the outcomes of calls to a single tool.
// Calls is expected to equal Successes+Failures, but this layer does not
// validate that; counts are passed through as recorded.
type ToolCallStats struct {
	Calls     int `json:"calls"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// ToolUsage is the per-run tool accounting record.
type ToolUsage struct {
	TotalCalls       int                      `json:"total_calls"`
	ByTool           map[string]ToolCallStats `json:"by_tool"`
	PermissionIssues []PermissionIssue        `json:"permission_issues"`
}

// PermissionIssue records a single permission or validation problem
// encountered during execution. Immutable once recorded.
type PermissionIssue struct {
	Tool      string `json:"tool"`
	IssueType string `json:"issue_type"` // e.g. "restricted"
	Message   string `json:"message"`
	Severity  string `json:"severity"` // low, medium, high
	Timestamp string `json:"timestamp"`
}

// ValidationStatus holds the four pre-flight check results. The whole
// record is absent when the pipeline skipped the pre-flight stage.
type ValidationStatus struct {
	SecretsCheck      bool `json:"secrets_check"`
	UserAuthorization bool `json:"user_authorization"`
	LabelsCheck       bool `json:"labels_check"`
	RateLimitCheck    bool `json:"rate_limit_check"`
}

// OutputValidationResult records the outcome of one configured output
// action. Zero or more exist per run.
type OutputValidationResult struct {
	OutputType string         `json:"output_type"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// JobStatuses carries the per-job status strings reported by the outer
// pipeline. Empty string means the job's status was not reported.
type JobStatuses struct {
	Agent          string
	ExecuteOutputs string
	CollectContext string
	RateLimited    bool
}

// Data is the merged evidence for one agent run. Pointer fields are nil
// when the corresponding record was absent or unparseable; the slices are
// empty in the same situation. Consumers must not assume any field is set.
type Data struct {
	Metrics          *ExecutionMetrics
	Validation       *ValidationStatus
	PermissionIssues []PermissionIssue
	OutputResults    []OutputValidationResult
}

// FailureInfo is the classifier's verdict: whether the run failed and the
// ordered human-readable reasons why. Reason order is part of the contract
// and is reproduced verbatim in reports and issue bodies.
type FailureInfo struct {
	HasFailures bool
	Reasons     []string
}
