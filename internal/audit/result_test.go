package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResultWriteJSON(t *testing.T) {
	result := NewResult()
	result.SetBool(OutputHasFailures, true)
	result.Set(OutputTotalAgents, "3")
	result.AddArtifact("audit-report", "/tmp/audit-report.md")

	path := filepath.Join(t.TempDir(), "result.json")
	if err := result.WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}

	var got Result
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if !got.Success {
		t.Error("audit results must always report success")
	}
	if got.Outputs[OutputHasFailures] != "true" {
		t.Errorf("has-failures = %q", got.Outputs[OutputHasFailures])
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].Name != "audit-report" {
		t.Errorf("artifacts = %+v", got.Artifacts)
	}
}

func TestResultAppendGitHubOutput(t *testing.T) {
	t.Run("simple values", func(t *testing.T) {
		result := NewResult()
		result.Set(OutputTotalAgents, "2")
		result.SetBool(OutputHasFailures, false)

		path := filepath.Join(t.TempDir(), "output")
		if err := result.AppendGitHubOutput(path); err != nil {
			t.Fatalf("AppendGitHubOutput failed: %v", err)
		}

		raw, _ := os.ReadFile(path)
		want := "has-failures=false\ntotal-agents=2\n"
		if string(raw) != want {
			t.Errorf("output = %q, want %q", raw, want)
		}
	})

	t.Run("multi-line values use heredoc form", func(t *testing.T) {
		result := NewResult()
		result.Set("report", "line one\nline two")

		path := filepath.Join(t.TempDir(), "output")
		if err := result.AppendGitHubOutput(path); err != nil {
			t.Fatalf("AppendGitHubOutput failed: %v", err)
		}

		raw, _ := os.ReadFile(path)
		if !strings.Contains(string(raw), "report<<CLAUDITOR_EOF\nline one\nline two\nCLAUDITOR_EOF\n") {
			t.Errorf("output = %q", raw)
		}
	})

	t.Run("appends rather than truncates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output")
		if err := os.WriteFile(path, []byte("existing=1\n"), 0644); err != nil {
			t.Fatal(err)
		}

		result := NewResult()
		result.Set("added", "2")
		if err := result.AppendGitHubOutput(path); err != nil {
			t.Fatalf("AppendGitHubOutput failed: %v", err)
		}

		raw, _ := os.ReadFile(path)
		if !strings.HasPrefix(string(raw), "existing=1\n") {
			t.Errorf("existing content was lost: %q", raw)
		}
	})
}
