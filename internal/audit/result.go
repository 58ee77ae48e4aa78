package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output keys emitted by the audit stage.
const (
	OutputHasFailures  = "has-failures"
	OutputParseError   = "parse-error"
	OutputTotalAgents  = "total-agents"
	OutputTotalCost    = "total-cost"
	OutputFailedAgents = "failed-agents"
	OutputIssueURL     = "issue-url"
)

// Artifact is a named file produced by the stage.
type Artifact struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Result is the stage's result object. Success is always true: the audit
// stage reports findings through its outputs and must never be the cause
// of an overall pipeline failure.
type Result struct {
	Success   bool              `json:"success"`
	Outputs   map[string]string `json:"outputs"`
	Artifacts []Artifact        `json:"artifacts"`
}

// NewResult returns an empty, successful stage result.
func NewResult() *Result {
	return &Result{
		Success: true,
		Outputs: make(map[string]string),
	}
}

// Set records a string output value under key.
func (r *Result) Set(key, value string) {
	r.Outputs[key] = value
}

// SetBool records a boolean output as "true"/"false".
func (r *Result) SetBool(key string, value bool) {
	r.Outputs[key] = fmt.Sprintf("%t", value)
}

// AddArtifact registers a produced file with the result.
func (r *Result) AddArtifact(name, path string) {
	r.Artifacts = append(r.Artifacts, Artifact{Name: name, Path: path})
}

// WriteJSON persists the result object to path.
func (r *Result) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// AppendGitHubOutput appends the outputs to a GITHUB_OUTPUT-style file in
// key=value form, using the heredoc form for multi-line values. Keys are
// written in sorted order so the file is deterministic.
func (r *Result) AppendGitHubOutput(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	keys := make([]string, 0, len(r.Outputs))
	for k := range r.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := r.Outputs[k]
		if strings.Contains(v, "\n") {
			fmt.Fprintf(&b, "%s<<CLAUDITOR_EOF\n%s\nCLAUDITOR_EOF\n", k, v)
		} else {
			fmt.Fprintf(&b, "%s=%s\n", k, v)
		}
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}
