// Package strings holds small helpers for list-valued settings.
package strings

import "strings"

// SplitList splits raw on sep, trims each entry and drops blanks and repeats.
// Order of first occurrence is kept.
func SplitList(raw, sep string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, sep) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
