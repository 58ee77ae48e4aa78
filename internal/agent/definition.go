// Package agent loads agent definition files. A definition is a markdown
// file with a YAML frontmatter block carrying the agent's name and its
// audit configuration. Parsing is deliberately forgiving: the audit stage
// must never fail the pipeline because a definition is malformed, so a
// bad file yields a degraded definition instead of an error.
package agent

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/clauditor/internal/logging"
	"github.com/Iron-Ham/clauditor/internal/util"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// AuditConfig controls the audit stage's external notifications for one agent.
type AuditConfig struct {
	// Labels applied to created issues; the first label doubles as the
	// dedup label when searching for an existing issue.
	Labels []string `yaml:"labels"`
	// Assignees for created issues.
	Assignees []string `yaml:"assignees"`
	// CreateIssues toggles issue creation. Nil means enabled.
	CreateIssues *bool `yaml:"create_issues"`
}

// IssuesEnabled reports whether failure issues should be created or
// updated for this agent. Defaults to true when unset.
func (c AuditConfig) IssuesEnabled() bool {
	return c.CreateIssues == nil || *c.CreateIssues
}

// Definition is a parsed agent definition.
type Definition struct {
	// Name is the agent's display name.
	Name string `yaml:"name"`
	// Description is free-form and unused by the audit stage.
	Description string `yaml:"description"`
	// Audit is the agent's audit configuration.
	Audit AuditConfig `yaml:"audit"`

	// Slug is derived from the definition file name.
	Slug string `yaml:"-"`
	// ParseError is set when the file could not be read or parsed. The
	// definition is still usable: Name falls back to the slug's display
	// form and the audit config keeps its defaults.
	ParseError bool `yaml:"-"`
}

// Load reads the agent definition at path. It never returns an error:
// unreadable or unparseable files produce a degraded definition with
// ParseError set, which the caller surfaces through stage outputs.
func Load(path string, logger *logging.Logger) Definition {
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	def := Definition{Slug: slug}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("agent definition not readable", "path", path, "error", err)
		def.Name = util.DisplayName(slug)
		def.ParseError = true
		return def
	}

	front, ok := extractFrontmatter(string(raw))
	if !ok {
		logger.Warn("agent definition has no frontmatter", "path", path)
		def.Name = util.DisplayName(slug)
		def.ParseError = true
		return def
	}

	if err := yaml.Unmarshal([]byte(front), &def); err != nil {
		logger.Warn("agent definition not parseable", "path", path, "error", err)
		def = Definition{Slug: slug, Name: util.DisplayName(slug), ParseError: true}
		return def
	}

	if def.Name == "" {
		def.Name = util.DisplayName(slug)
	}
	return def
}

// extractFrontmatter returns the YAML between the leading "---" markers.
func extractFrontmatter(content string) (string, bool) {
	content = strings.TrimLeft(content, "\uFEFF\n\r ")
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return "", false
	}
	rest := content[len(frontmatterDelimiter):]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
