package score

import "strings"

// Normalize canonicalizes free text for case- and whitespace-insensitive
// matching: leading/trailing whitespace is trimmed, any run of whitespace
// (including newlines and tabs) collapses to a single space, and the result
// is lowercased. Total function: empty input normalizes to the empty string.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
