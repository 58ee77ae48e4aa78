// Package util provides shared utility functions used across the codebase.
package util

import (
	"strings"
	"unicode"
)

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// DisplayName converts an agent slug to a human-readable display name:
// separators ("-" and "_") become spaces and each word is title-cased.
// For example, "issue-triage" becomes "Issue Triage".
func DisplayName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
