package cli

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestValue returns the closest allowed value to input, or "" if
// nothing is close enough. Close enough means an edit distance of at most
// 3, compared case-insensitively.
func suggestValue(input string, allowed []string) string {
	input = strings.ToUpper(strings.TrimSpace(input))
	best := ""
	bestDistance := 4
	for _, candidate := range allowed {
		if d := levenshtein.ComputeDistance(input, strings.ToUpper(candidate)); d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	return best
}

// normalizeEnum matches input against allowed ignoring case. It returns
// the canonical value and whether it matched.
func normalizeEnum(input string, allowed []string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, candidate := range allowed {
		if strings.EqualFold(input, candidate) {
			return candidate, true
		}
	}
	return input, false
}
