// Package report renders the audit evidence for one agent run into a
// structured markdown report. Sections are emitted only when their backing
// evidence exists; rendering never fails on missing data.
package report

import (
	"fmt"
	"time"
)

// RunContext carries the pipeline run attributes used for report headers
// and links. It is an explicit value rather than ambient environment
// lookups so it can be injected in tests.
type RunContext struct {
	// Repository is the "owner/name" identifier of the repository.
	Repository string
	// ServerURL is the base URL of the hosting server, e.g. "https://github.com".
	ServerURL string
	// RunID identifies the pipeline run.
	RunID string
	// RunNumber is the human-facing sequential run number.
	RunNumber int
	// Actor is the login of the user that triggered the run.
	Actor string
	// EventName is the event that triggered the run, e.g. "schedule".
	EventName string
	// Timestamp is when the audit was produced.
	Timestamp time.Time
}

// RunURL returns the web URL for the pipeline run, or empty when the
// context lacks the pieces to build one.
func (rc RunContext) RunURL() string {
	if rc.ServerURL == "" || rc.Repository == "" || rc.RunID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", rc.ServerURL, rc.Repository, rc.RunID)
}
