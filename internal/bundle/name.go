// Package bundle discovers per-agent result bundles and aggregates them
// into run-wide totals. A bundle is a directory holding one agent run's
// partial-result records (metrics, tool usage), named by a slug+run-id
// convention.
package bundle

import (
	"errors"
	"strings"
)

// Prefix is the directory-name prefix that marks an agent result bundle.
const Prefix = "agent-outputs-"

// ErrUnrecognizedName indicates a directory name that does not follow the
// bundle naming convention.
var ErrUnrecognizedName = errors.New("unrecognized bundle name")

// Name is the parsed form of a bundle directory name.
type Name struct {
	AgentSlug string
	RunID     string
}

// ParseName maps a bundle directory name of the form
// "agent-outputs-<slug>-<runID>" to its parts. The run id is the trailing
// "-"-delimited segment and must be numeric; the slug is everything in
// between and may itself contain "-". Pure function, no filesystem access.
func ParseName(dir string) (Name, error) {
	rest, ok := strings.CutPrefix(dir, Prefix)
	if !ok {
		return Name{}, ErrUnrecognizedName
	}

	idx := strings.LastIndex(rest, "-")
	if idx <= 0 || idx == len(rest)-1 {
		return Name{}, ErrUnrecognizedName
	}

	slug, runID := rest[:idx], rest[idx+1:]
	if !isDigits(runID) {
		return Name{}, ErrUnrecognizedName
	}

	return Name{AgentSlug: slug, RunID: runID}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
