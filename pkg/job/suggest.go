package job

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a supported value.
const maxSuggestDistance = 3

// suggest returns the candidate closest to value, compared case-insensitively,
// or "" when none is within maxSuggestDistance.
func suggest(value string, candidates []string) string {
	best, bestDist := "", maxSuggestDistance+1
	lower := strings.ToLower(value)
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(lower, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
