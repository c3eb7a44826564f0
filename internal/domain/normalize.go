package domain

import (
	"strings"
	"unicode"
)

// NormalizeSlug prepares a category slug for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - drops control characters
//   - replaces inner whitespace runs with a single hyphen
func NormalizeSlug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteByte('-')
			}
			prevSpace = true
			continue
		case unicode.IsControl(r):
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
