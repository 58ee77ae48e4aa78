package audit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/gobwas/glob"
)

// File names for the fixed record slots within a record directory.
const (
	ValidationStatusFile = "validation-status.json"
	PermissionIssuesFile = "permission-issues.json"
	MetricsFile          = "metrics.json"
	ToolUsageFile        = "tool-usage.json"
	OutputsDirName       = "outputs"
)

// outputFilePattern matches the files in the outputs directory that are
// parsed as OutputValidationResult records. Everything else is ignored.
var outputFilePattern = glob.MustCompile("*.json")

// Locations names the record slots for one agent run. Every slot is
// optional; a missing or unreadable slot contributes no evidence.
type Locations struct {
	ValidationStatus string
	PermissionIssues string
	Metrics          string
	OutputsDir       string
}

// DefaultLocations returns the conventional slot layout under baseDir.
func DefaultLocations(baseDir string) Locations {
	return Locations{
		ValidationStatus: filepath.Join(baseDir, ValidationStatusFile),
		PermissionIssues: filepath.Join(baseDir, PermissionIssuesFile),
		Metrics:          filepath.Join(baseDir, MetricsFile),
		OutputsDir:       filepath.Join(baseDir, OutputsDirName),
	}
}

// Read collects whatever evidence exists at the given locations. It never
// fails: a slot that cannot be read or parsed is treated as absent, and a
// completely missing directory structure yields zero records.
func Read(locs Locations, logger *logging.Logger) Data {
	data := Data{}

	if v := new(ValidationStatus); readJSON(locs.ValidationStatus, v, logger) {
		data.Validation = v
	}
	var issues []PermissionIssue
	if readJSON(locs.PermissionIssues, &issues, logger) {
		data.PermissionIssues = issues
	}
	data.Metrics = ReadMetrics(locs.Metrics, logger)
	data.OutputResults = readOutputResults(locs.OutputsDir, logger)

	return data
}

// ReadMetrics reads a single ExecutionMetrics record, returning nil when
// the file is absent or unparseable. Shared with bundle aggregation.
func ReadMetrics(path string, logger *logging.Logger) *ExecutionMetrics {
	m := new(ExecutionMetrics)
	if !readJSON(path, m, logger) {
		return nil
	}
	return m
}

// ReadToolUsage reads a single ToolUsage record, returning nil when the
// file is absent or unparseable. Shared with bundle aggregation.
func ReadToolUsage(path string, logger *logging.Logger) *ToolUsage {
	u := new(ToolUsage)
	if !readJSON(path, u, logger) {
		return nil
	}
	return u
}

// readOutputResults scans dir (non-recursively) for recognized output
// record files. Unparseable files are skipped. Directory entries are
// visited in name order, so collection order is deterministic.
func readOutputResults(dir string, logger *logging.Logger) []OutputValidationResult {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("outputs directory not readable", "dir", dir, "error", err)
		return nil
	}

	var results []OutputValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !outputFilePattern.Match(entry.Name()) {
			continue
		}
		r := new(OutputValidationResult)
		if readJSON(filepath.Join(dir, entry.Name()), r, logger) {
			results = append(results, *r)
		}
	}
	return results
}

// readJSON reads and unmarshals one record file into v. It reports whether
// the slot held a usable record; failures are logged at debug level only.
func readJSON(path string, v any, logger *logging.Logger) bool {
	if path == "" {
		return false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("record not readable", "path", path, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		logger.Debug("record not parseable", "path", path, "error", err)
		return false
	}
	return true
}
