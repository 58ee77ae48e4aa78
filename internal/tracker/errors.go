package tracker

import "errors"

// Sentinel errors for issue tracker operations.
var (
	// ErrIssueNotFound indicates that the requested issue does not exist.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrAuthRequired indicates that authentication is required.
	ErrAuthRequired = errors.New("authentication required")

	// ErrProviderUnavailable indicates that the provider tool/API is not available.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
