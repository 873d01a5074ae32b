// Package suggest finds the closest known identifier for a misspelled one.
package suggest

import (
	"regexp"

	"github.com/agnivade/levenshtein"
)

// accessor prefixes are ignored when comparing, so "getName" matches "name".
var accessor = regexp.MustCompile(`^(get|set|has|is|add)([A-Z])`)

func normalize(s string) string {
	return accessor.ReplaceAllString(s, "$2")
}

// Closest returns the candidate nearest to value, or "" when none is close
// enough. A candidate equal to value is never suggested. Ties keep the
// earlier candidate so the result is deterministic.
func Closest(candidates []string, value string) string {
	if value == "" {
		return ""
	}
	limit := float64(len(value))/4 + 1
	norm := normalize(value)

	best := ""
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == value {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		d := float64(levenshtein.ComputeDistance(c, value))
		if alt := float64(levenshtein.ComputeDistance(normalize(c), norm)) + 2; alt < d {
			d = alt
		}
		if d < limit {
			limit = d
			best = c
		}
	}
	return best
}
