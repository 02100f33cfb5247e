package domain

import (
	"strings"
)

// NormalizeName prepares a display name for storage:
//   - trims leading/trailing whitespace
//   - compresses runs of whitespace into a single space
//
// Case is preserved; searches are case-insensitive at the storage layer.
func NormalizeName(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeOptional applies NormalizeName to an optional value.
// A nil pointer stays nil; a value that normalizes to "" becomes nil.
func NormalizeOptional(text *string) *string {
	if text == nil {
		return nil
	}
	n := NormalizeName(*text)
	if n == "" {
		return nil
	}
	return &n
}
