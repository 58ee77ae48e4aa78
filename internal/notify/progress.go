package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Iron-Ham/clauditor/internal/logging"
)

// Known pipeline stage keys, in display order.
const (
	StageSetup   = "setup"
	StageAgent   = "agent"
	StageOutputs = "outputs"
	StageAudit   = "audit"
)

// Stage statuses for the progress comment.
const (
	ProgressPending = "pending"
	ProgressRunning = "running"
	ProgressSuccess = "success"
	ProgressFailed  = "failed"
	ProgressSkipped = "skipped"
)

// stageOrder fixes the rendering order of stages in the comment.
var stageOrder = []string{StageSetup, StageAgent, StageOutputs, StageAudit}

// stageLabels maps stage keys to the labels rendered in the comment.
// The mapping must round-trip: parseProgressBody relies on these labels
// to recover stage state from a previously rendered comment.
var stageLabels = map[string]string{
	StageSetup:   "Setup",
	StageAgent:   "Agent Execution",
	StageOutputs: "Outputs",
	StageAudit:   "Audit",
}

// statusMarkers maps stage statuses to their rendered markers.
var statusMarkers = map[string]string{
	ProgressPending: "⏳",
	ProgressRunning: "🔄",
	ProgressSuccess: "✅",
	ProgressFailed:  "❌",
	ProgressSkipped: "⏭️",
}

// ProgressComment locates an existing progress comment.
type ProgressComment struct {
	CommentID   int64 `json:"comment_id"`
	IssueNumber int   `json:"issue_number"`
}

// DispatchContext is the external record describing where progress for
// this run is being reported.
type DispatchContext struct {
	ProgressComment  *ProgressComment `json:"progress_comment,omitempty"`
	DispatcherRunID  string           `json:"dispatcher_run_id,omitempty"`
	DispatcherRunURL string           `json:"dispatcher_run_url,omitempty"`
}

// LoadDispatchContext reads a dispatch context record. A missing or
// unparseable file yields nil, which downstream treats as "no progress
// comment to update".
func LoadDispatchContext(path string, logger *logging.Logger) *DispatchContext {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("dispatch context not readable", "path", path, "error", err)
		return nil
	}
	dc := new(DispatchContext)
	if err := json.Unmarshal(raw, dc); err != nil {
		logger.Debug("dispatch context not parseable", "path", path, "error", err)
		return nil
	}
	return dc
}

// progressState is the small state object behind a progress comment.
type progressState struct {
	agentName string
	runID     string
	stages    map[string]string
	errMsg    string
	closing   string
}

// newProgressState returns a state with every known stage pending.
func newProgressState(agentName, runID string) progressState {
	stages := make(map[string]string, len(stageOrder))
	for _, s := range stageOrder {
		stages[s] = ProgressPending
	}
	return progressState{agentName: agentName, runID: runID, stages: stages}
}

// parseProgressBody reconstructs stage state from a previously rendered
// comment body so that stages already marked success are not regressed to
// pending when the comment is updated again. Unrecognized lines are ignored.
func parseProgressBody(body, agentName, runID string) progressState {
	state := newProgressState(agentName, runID)

	labelToStage := make(map[string]string, len(stageLabels))
	for stage, label := range stageLabels {
		labelToStage[label] = stage
	}
	markerToStatus := make(map[string]string, len(statusMarkers))
	for status, marker := range statusMarkers {
		markerToStatus[marker] = status
	}

	for _, line := range strings.Split(body, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "- ")
		if !ok {
			continue
		}
		marker, label, ok := strings.Cut(rest, " ")
		if !ok {
			continue
		}
		stage, ok := labelToStage[strings.TrimSpace(label)]
		if !ok {
			continue
		}
		if status, ok := markerToStatus[marker]; ok {
			state.stages[stage] = status
		}
	}

	return state
}

// render produces the comment body for the current state. In final mode
// (closing set) the trailing content is the externally supplied closing
// text instead of the error block.
func (s progressState) render(dispatcherRunURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### Agent Run Progress — %s (run %s)\n\n", s.agentName, s.runID)

	for _, stage := range stageOrder {
		marker, ok := statusMarkers[s.stages[stage]]
		if !ok {
			marker = statusMarkers[ProgressPending]
		}
		fmt.Fprintf(&b, "- %s %s\n", marker, stageLabels[stage])
	}

	switch {
	case s.closing != "":
		fmt.Fprintf(&b, "\n%s\n", s.closing)
	case s.errMsg != "":
		fmt.Fprintf(&b, "\n> Error: %s\n", s.errMsg)
	}

	if dispatcherRunURL != "" {
		fmt.Fprintf(&b, "\n_Updated by [dispatcher run](%s)_\n", dispatcherRunURL)
	}

	return b.String()
}

// UpdateProgress sets one stage's status on the progress comment for
// (agent, run). When no progress comment exists in the dispatch context
// this is a logged no-op. All tracker failures are logged and swallowed.
func (d *Dispatcher) UpdateProgress(agentName, runID, stage, status, errMsg string, dc *DispatchContext) {
	d.updateProgressComment(agentName, runID, dc, func(state *progressState) {
		if _, known := state.stages[stage]; !known {
			d.logger.Warn("unknown pipeline stage", "stage", stage)
			return
		}
		state.stages[stage] = status
		state.errMsg = errMsg
	})
}

// FinalizeProgress replaces the progress comment's trailing content with
// externally supplied closing text (e.g. an agent-authored summary).
func (d *Dispatcher) FinalizeProgress(agentName, runID, closing string, dc *DispatchContext) {
	d.updateProgressComment(agentName, runID, dc, func(state *progressState) {
		state.closing = closing
	})
}

func (d *Dispatcher) updateProgressComment(agentName, runID string, dc *DispatchContext, mutate func(*progressState)) {
	if dc == nil || dc.ProgressComment == nil {
		d.logger.Debug("no progress comment in dispatch context, skipping update",
			"agent", agentName, "run_id", runID)
		return
	}

	state := newProgressState(agentName, runID)
	body, err := d.tracker.GetCommentBody(dc.ProgressComment.CommentID)
	if err != nil {
		d.logger.Warn("failed to read progress comment, rebuilding state",
			"comment_id", dc.ProgressComment.CommentID, "error", err)
	} else {
		state = parseProgressBody(body, agentName, runID)
	}

	mutate(&state)

	if err := d.tracker.UpdateComment(dc.ProgressComment.CommentID, state.render(dc.DispatcherRunURL)); err != nil {
		d.logger.Warn("failed to update progress comment",
			"comment_id", dc.ProgressComment.CommentID, "error", err)
	}
}
