package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace collapses whitespace and truncates long statements so
// query spans stay readable in the trace UI.
func formatDBQueryForTrace(query string) string {
	normalized := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) > maxTracedQueryLength {
		return normalized[:maxTracedQueryLength] + "..."
	}
	return normalized
}
