package agent

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Iron-Ham/clauditor/internal/logging"
)

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	logger := logging.NopLogger()

	t.Run("full frontmatter", func(t *testing.T) {
		path := writeDefinition(t, "issue-triage.md", `---
name: Issue Triage
description: Triages new issues nightly.
audit:
  labels:
    - triage-bot
    - automation
  assignees:
    - octocat
  create_issues: false
---

You are a triage agent. Read new issues and label them.
`)

		def := Load(path, logger)

		if def.ParseError {
			t.Fatal("unexpected parse error")
		}
		if def.Name != "Issue Triage" {
			t.Errorf("Name = %q", def.Name)
		}
		if def.Slug != "issue-triage" {
			t.Errorf("Slug = %q", def.Slug)
		}
		if !reflect.DeepEqual(def.Audit.Labels, []string{"triage-bot", "automation"}) {
			t.Errorf("Labels = %v", def.Audit.Labels)
		}
		if !reflect.DeepEqual(def.Audit.Assignees, []string{"octocat"}) {
			t.Errorf("Assignees = %v", def.Audit.Assignees)
		}
		if def.Audit.IssuesEnabled() {
			t.Error("create_issues: false should disable issues")
		}
	})

	t.Run("issue creation defaults to enabled", func(t *testing.T) {
		path := writeDefinition(t, "pr-review.md", `---
name: PR Review
---
body
`)
		def := Load(path, logger)

		if !def.Audit.IssuesEnabled() {
			t.Error("issues should be enabled by default")
		}
	})

	t.Run("missing name falls back to slug display form", func(t *testing.T) {
		path := writeDefinition(t, "nightly-report.md", `---
audit:
  labels: [reports]
---
body
`)
		def := Load(path, logger)

		if def.Name != "Nightly Report" {
			t.Errorf("Name = %q, want Nightly Report", def.Name)
		}
		if def.ParseError {
			t.Error("valid frontmatter must not set ParseError")
		}
	})

	t.Run("byte order mark before frontmatter is ignored", func(t *testing.T) {
		path := writeDefinition(t, "bom-agent.md", "\uFEFF---\nname: BOM Agent\n---\nbody\n")
		def := Load(path, logger)

		if def.ParseError {
			t.Fatal("unexpected parse error")
		}
		if def.Name != "BOM Agent" {
			t.Errorf("Name = %q, want BOM Agent", def.Name)
		}
	})

	t.Run("missing file degrades instead of failing", func(t *testing.T) {
		def := Load(filepath.Join(t.TempDir(), "ghost-agent.md"), logger)

		if !def.ParseError {
			t.Error("expected ParseError for missing file")
		}
		if def.Name != "Ghost Agent" {
			t.Errorf("Name = %q, want Ghost Agent", def.Name)
		}
		if !def.Audit.IssuesEnabled() {
			t.Error("degraded definition keeps default audit config")
		}
	})

	t.Run("broken frontmatter degrades instead of failing", func(t *testing.T) {
		path := writeDefinition(t, "busted.md", `---
name: [unclosed
---
body
`)
		def := Load(path, logger)

		if !def.ParseError {
			t.Error("expected ParseError for broken YAML")
		}
		if def.Name != "Busted" {
			t.Errorf("Name = %q, want Busted", def.Name)
		}
	})

	t.Run("no frontmatter degrades instead of failing", func(t *testing.T) {
		path := writeDefinition(t, "plain.md", "just a prompt, no frontmatter\n")
		def := Load(path, logger)

		if !def.ParseError {
			t.Error("expected ParseError without frontmatter")
		}
	})
}
