// Package tracker provides an abstraction for issue tracking systems.
// It defines the IssueTracker interface covering the operations the audit
// stage needs: finding a pre-existing failure issue by dedup key, creating
// one, and appending or editing comments.
package tracker

// IssueRef is an opaque reference to an issue in an issue tracking system.
type IssueRef struct {
	// Number is the human-readable issue number.
	Number int

	// URL is the web URL to view the issue.
	URL string
}

// IssueOptions contains the parameters for creating an issue.
type IssueOptions struct {
	// Title is the issue title (required for creation).
	Title string

	// Body is the issue description/body in markdown.
	Body string

	// Labels are tags/labels to apply to the issue.
	Labels []string

	// Assignees are user logins to assign the issue to.
	Assignees []string
}

// IssueTracker defines the interface for issue tracking system operations.
// Implementations handle the provider-specific API calls (gh CLI, GraphQL,
// REST, etc.).
type IssueTracker interface {
	// FindOpenIssue searches open issues carrying the given label whose
	// title contains the search string. It reports the first match and
	// whether one was found.
	FindOpenIssue(label, search string) (IssueRef, bool, error)

	// CreateIssue creates a new issue and returns its reference.
	CreateIssue(opts IssueOptions) (IssueRef, error)

	// AddComment appends a comment to an existing issue.
	AddComment(ref IssueRef, body string) error

	// GetCommentBody returns the current body of an issue comment.
	GetCommentBody(commentID int64) (string, error)

	// UpdateComment replaces the body of an issue comment.
	UpdateComment(commentID int64, body string) error
}
