package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanEmail normalizes an email address the way the backend stores it:
// trimmed and lowercased, so the same address always compares equal.
func CleanEmail(s string) string {
	return CleanString(s, true /* lower */)
}
