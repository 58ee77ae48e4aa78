package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// CommandExecutor is a function type that executes a command and returns its output.
// This allows for dependency injection in tests.
type CommandExecutor func(name string, args ...string) ([]byte, error)

// defaultExecutor runs commands using os/exec.
var defaultExecutor CommandExecutor = func(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// GitHubTracker implements IssueTracker for GitHub using the gh CLI.
type GitHubTracker struct {
	executor CommandExecutor
	repo     string // "owner/name"; empty means the current repo context
}

// NewGitHubTracker creates a new GitHubTracker for the given repository
// using the default command executor. An empty repo relies on gh's own
// repository detection.
func NewGitHubTracker(repo string) *GitHubTracker {
	return &GitHubTracker{
		executor: defaultExecutor,
		repo:     repo,
	}
}

// NewGitHubTrackerWithExecutor creates a new GitHubTracker with a custom
// command executor for testing.
func NewGitHubTrackerWithExecutor(repo string, executor CommandExecutor) *GitHubTracker {
	return &GitHubTracker{
		executor: executor,
		repo:     repo,
	}
}

// FindOpenIssue searches open issues with the given label whose title
// contains the search string, returning the first match.
func (g *GitHubTracker) FindOpenIssue(label, search string) (IssueRef, bool, error) {
	args := []string{"issue", "list",
		"--state", "open",
		"--label", label,
		"--search", fmt.Sprintf("%q in:title", search),
		"--json", "number,url",
		"--limit", "1",
	}
	args = g.withRepo(args)

	output, err := g.executor("gh", args...)
	if err != nil {
		return IssueRef{}, false, g.classifyError(err, output)
	}

	var found []struct {
		Number int    `json:"number"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(output, &found); err != nil {
		return IssueRef{}, false, fmt.Errorf("failed to parse issue list: %w", err)
	}
	if len(found) == 0 {
		return IssueRef{}, false, nil
	}

	return IssueRef{Number: found[0].Number, URL: found[0].URL}, true, nil
}

// CreateIssue creates a GitHub issue using the gh CLI.
func (g *GitHubTracker) CreateIssue(opts IssueOptions) (IssueRef, error) {
	if opts.Title == "" {
		return IssueRef{}, fmt.Errorf("issue title is required")
	}

	args := []string{"issue", "create",
		"--title", opts.Title,
		"--body", opts.Body,
	}
	for _, label := range opts.Labels {
		args = append(args, "--label", label)
	}
	for _, assignee := range opts.Assignees {
		args = append(args, "--assignee", assignee)
	}
	args = g.withRepo(args)

	output, err := g.executor("gh", args...)
	if err != nil {
		return IssueRef{}, g.classifyError(err, output)
	}

	url := strings.TrimSpace(string(output))
	num, err := parseIssueNumber(url)
	if err != nil {
		return IssueRef{URL: url}, err
	}

	return IssueRef{Number: num, URL: url}, nil
}

// AddComment appends a comment to an existing issue.
func (g *GitHubTracker) AddComment(ref IssueRef, body string) error {
	if ref.Number <= 0 {
		return fmt.Errorf("issue number is required for commenting")
	}

	args := g.withRepo([]string{"issue", "comment", strconv.Itoa(ref.Number), "--body", body})

	output, err := g.executor("gh", args...)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// GetCommentBody returns the current body of an issue comment via the REST API.
func (g *GitHubTracker) GetCommentBody(commentID int64) (string, error) {
	output, err := g.executor("gh", "api", g.commentPath(commentID), "--jq", ".body")
	if err != nil {
		return "", g.classifyError(err, output)
	}
	return strings.TrimSuffix(string(output), "\n"), nil
}

// UpdateComment replaces the body of an issue comment via the REST API.
func (g *GitHubTracker) UpdateComment(commentID int64, body string) error {
	output, err := g.executor("gh", "api",
		"--method", "PATCH",
		g.commentPath(commentID),
		"-f", "body="+body,
	)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// withRepo appends the --repo flag when a repository is configured.
func (g *GitHubTracker) withRepo(args []string) []string {
	if g.repo != "" {
		args = append(args, "--repo", g.repo)
	}
	return args
}

// commentPath builds the REST path for an issue comment.
func (g *GitHubTracker) commentPath(commentID int64) string {
	repo := g.repo
	if repo == "" {
		repo = "{owner}/{repo}"
	}
	return fmt.Sprintf("repos/%s/issues/comments/%d", repo, commentID)
}

// classifyError analyzes the error and output from a gh command
// and returns a more specific error type when possible.
// Errors are wrapped to preserve context while enabling errors.Is() checks.
func (g *GitHubTracker) classifyError(err error, output []byte) error {
	outStr := strings.ToLower(string(output))

	// Check for "executable file not found" which indicates gh is not installed
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, execErr)
	}

	switch {
	case strings.Contains(outStr, "not logged in") ||
		strings.Contains(outStr, "authentication required") ||
		strings.Contains(outStr, "gh auth login"):
		return fmt.Errorf("%w: %s", ErrAuthRequired, strings.TrimSpace(string(output)))

	case strings.Contains(outStr, "could not find issue") ||
		strings.Contains(outStr, "issue not found"):
		// Only match issue-specific "not found" patterns to avoid false positives
		return fmt.Errorf("%w: %s", ErrIssueNotFound, strings.TrimSpace(string(output)))

	case strings.Contains(outStr, "could not resolve to a repository"):
		return fmt.Errorf("repository not found or not accessible: %s", strings.TrimSpace(string(output)))
	}

	// Return the original error with output for debugging
	return fmt.Errorf("gh command failed: %w\n%s", err, string(output))
}

// parseIssueNumber extracts issue number from gh output URL
// e.g., https://github.com/owner/repo/issues/123
func parseIssueNumber(output string) (int, error) {
	re := regexp.MustCompile(`/issues/(\d+)`)
	matches := re.FindStringSubmatch(output)
	if len(matches) < 2 {
		return 0, fmt.Errorf("could not parse issue number from: %s", output)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid issue number: %w", err)
	}

	return num, nil
}

// Ensure GitHubTracker implements IssueTracker
var _ IssueTracker = (*GitHubTracker)(nil)
