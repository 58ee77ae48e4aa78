// Package notify dispatches the audit stage's external side effects: the
// deduplicated failure issue and the per-run progress comment. Every
// external call gets a single attempt; failures are logged and swallowed
// so this stage can never be the reason the pipeline reports failure.
package notify

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/clauditor/internal/agent"
	"github.com/Iron-Ham/clauditor/internal/audit"
	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/Iron-Ham/clauditor/internal/tracker"
)

// DefaultLabel is the dedup label used when the agent configures none.
const DefaultLabel = "agent-audit"

// issueTitleSuffix completes the failure issue title after the agent name.
const issueTitleSuffix = ": Agent Execution Failed"

// Outcome is the explicit result of a notification attempt. Errors are
// recorded for logging but never propagate across the component boundary.
type Outcome struct {
	// Ref is the created or updated issue, when one was reached.
	Ref tracker.IssueRef
	// Notified reports whether an issue reference was obtained.
	Notified bool
	// Err is the swallowed error, if any call failed.
	Err error
}

// URL returns the issue URL, or empty when nothing was notified.
func (o Outcome) URL() string {
	if !o.Notified {
		return ""
	}
	return o.Ref.URL
}

// Dispatcher coordinates external notifications through an IssueTracker.
type Dispatcher struct {
	tracker      tracker.IssueTracker
	defaultLabel string
	logger       *logging.Logger
}

// New creates a Dispatcher. defaultLabel is the dedup label for agents
// that configure none; empty falls back to DefaultLabel.
func New(t tracker.IssueTracker, defaultLabel string, logger *logging.Logger) *Dispatcher {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}
	return &Dispatcher{tracker: t, defaultLabel: defaultLabel, logger: logger}
}

// NotifyFailure finds or creates the failure issue for the agent. The
// dedup key is the agent's first configured label (or DefaultLabel) plus
// the issue title derived from the agent name. When an open issue already
// exists, the failure summary and report are appended as a comment so
// repeated failures never produce a second issue.
func (d *Dispatcher) NotifyFailure(def agent.Definition, reportText string, failures audit.FailureInfo) Outcome {
	label := d.defaultLabel
	if len(def.Audit.Labels) > 0 {
		label = def.Audit.Labels[0]
	}
	title := def.Name + issueTitleSuffix
	body := failureBody(reportText, failures)

	existing, found, err := d.tracker.FindOpenIssue(label, title)
	if err != nil {
		d.logger.Warn("issue search failed", "agent", def.Name, "error", err)
		return Outcome{Err: err}
	}

	if found {
		if err := d.tracker.AddComment(existing, body); err != nil {
			// The issue itself is still the right reference; only the
			// append is lost.
			d.logger.Warn("failed to append to existing issue", "issue", existing.Number, "error", err)
			return Outcome{Ref: existing, Notified: true, Err: err}
		}
		d.logger.Info("appended failure to existing issue", "issue", existing.Number, "url", existing.URL)
		return Outcome{Ref: existing, Notified: true}
	}

	labels := def.Audit.Labels
	if len(labels) == 0 {
		labels = []string{d.defaultLabel}
	}
	ref, err := d.tracker.CreateIssue(tracker.IssueOptions{
		Title:     title,
		Body:      body,
		Labels:    labels,
		Assignees: def.Audit.Assignees,
	})
	if err != nil {
		d.logger.Warn("issue creation failed", "agent", def.Name, "error", err)
		return Outcome{Err: err}
	}

	d.logger.Info("created failure issue", "issue", ref.Number, "url", ref.URL)
	return Outcome{Ref: ref, Notified: true}
}

// failureBody builds the issue/comment body: the failure summary followed
// by the full report inside a collapsible section.
func failureBody(reportText string, failures audit.FailureInfo) string {
	var b strings.Builder

	b.WriteString("The agent run failed:\n\n")
	for _, reason := range failures.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	b.WriteString("\n<details>\n<summary>Full audit report</summary>\n\n")
	b.WriteString(reportText)
	b.WriteString("\n</details>\n")

	return b.String()
}
