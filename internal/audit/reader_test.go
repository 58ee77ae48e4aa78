package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/clauditor/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestRead(t *testing.T) {
	logger := logging.NopLogger()

	t.Run("missing base directory yields zero records", func(t *testing.T) {
		locs := DefaultLocations(filepath.Join(t.TempDir(), "does-not-exist"))
		data := Read(locs, logger)

		if data.Metrics != nil || data.Validation != nil {
			t.Error("expected no evidence from a missing directory")
		}
		if len(data.PermissionIssues) != 0 || len(data.OutputResults) != 0 {
			t.Error("expected empty slices from a missing directory")
		}
	})

	t.Run("reads all present slots", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, MetricsFile),
			`{"total_cost_usd": 0.0042, "num_turns": 7, "duration_ms": 81000, "session_id": "sess-9", "is_error": false}`)
		writeFile(t, filepath.Join(dir, ValidationStatusFile),
			`{"secrets_check": true, "user_authorization": true, "labels_check": false, "rate_limit_check": true}`)
		writeFile(t, filepath.Join(dir, PermissionIssuesFile),
			`[{"tool": "Bash", "issue_type": "restricted", "message": "rm denied", "severity": "high", "timestamp": "2026-08-30T10:00:00Z"}]`)
		writeFile(t, filepath.Join(dir, OutputsDirName, "comment.json"),
			`{"output_type": "comment", "success": true}`)
		writeFile(t, filepath.Join(dir, OutputsDirName, "label.json"),
			`{"output_type": "label", "success": false, "error": "label missing"}`)

		data := Read(DefaultLocations(dir), logger)

		if data.Metrics == nil {
			t.Fatal("expected metrics")
		}
		if data.Metrics.TotalCostUSD != 0.0042 || data.Metrics.NumTurns != 7 {
			t.Errorf("metrics = %+v", data.Metrics)
		}
		if data.Validation == nil || data.Validation.LabelsCheck {
			t.Errorf("validation = %+v", data.Validation)
		}
		if len(data.PermissionIssues) != 1 || data.PermissionIssues[0].Tool != "Bash" {
			t.Errorf("permission issues = %+v", data.PermissionIssues)
		}
		if len(data.OutputResults) != 2 {
			t.Fatalf("expected 2 output results, got %d", len(data.OutputResults))
		}
		// Directory order is name order, so comment.json comes first.
		if data.OutputResults[0].OutputType != "comment" || data.OutputResults[1].OutputType != "label" {
			t.Errorf("output results = %+v", data.OutputResults)
		}
	})

	t.Run("unparseable slot is treated as absent", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, MetricsFile), `{not json`)
		writeFile(t, filepath.Join(dir, ValidationStatusFile),
			`{"secrets_check": true, "user_authorization": true, "labels_check": true, "rate_limit_check": true}`)

		data := Read(DefaultLocations(dir), logger)

		if data.Metrics != nil {
			t.Error("unparseable metrics should be absent, not an error")
		}
		if data.Validation == nil {
			t.Error("other slots should still be read")
		}
	})

	t.Run("outputs directory skips unrecognized and unparseable files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, OutputsDirName, "a.json"), `{"output_type": "comment", "success": true}`)
		writeFile(t, filepath.Join(dir, OutputsDirName, "broken.json"), `nope`)
		writeFile(t, filepath.Join(dir, OutputsDirName, "notes.txt"), `not a record`)
		if err := os.MkdirAll(filepath.Join(dir, OutputsDirName, "nested.json"), 0755); err != nil {
			t.Fatal(err)
		}

		data := Read(DefaultLocations(dir), logger)

		if len(data.OutputResults) != 1 {
			t.Fatalf("expected 1 output result, got %d", len(data.OutputResults))
		}
		if data.OutputResults[0].OutputType != "comment" {
			t.Errorf("output results = %+v", data.OutputResults)
		}
	})
}

func TestReadMetricsOptionalTokens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, MetricsFile)
	writeFile(t, path,
		`{"total_cost_usd": 0.1, "num_turns": 2, "input_tokens": 4500, "output_tokens": 1200}`)

	m := ReadMetrics(path, logging.NopLogger())
	if m == nil {
		t.Fatal("expected metrics")
	}
	if m.InputTokens == nil || *m.InputTokens != 4500 {
		t.Errorf("InputTokens = %v", m.InputTokens)
	}
	if m.OutputTokens == nil || *m.OutputTokens != 1200 {
		t.Errorf("OutputTokens = %v", m.OutputTokens)
	}
}
