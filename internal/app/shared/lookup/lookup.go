// Package lookup resolves loosely typed names from clients against the fixed game tables.
package lookup

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// MaxDistance is the largest edit distance still accepted as a typo.
const MaxDistance = 2

// Match returns the candidate name refers to. Case and surrounding space are ignored; otherwise the
// single closest candidate within MaxDistance wins. Ties are rejected.
func Match(name string, candidates []string) (string, bool) {
	name = normalize(name)
	if name == "" {
		return "", false
	}
	best, bestDist, tie := "", MaxDistance+1, false
	for _, c := range candidates {
		n := normalize(c)
		if n == name {
			return c, true
		}
		d := levenshtein.ComputeDistance(name, n)
		switch {
		case d < bestDist:
			best, bestDist, tie = c, d, false
		case d == bestDist:
			tie = true
		}
	}
	if best == "" || tie {
		return "", false
	}
	return best, true
}

// Index is Match for tables addressed by position, such as the crafting recipes.
func Index(name string, candidates []string) (int, bool) {
	got, ok := Match(name, candidates)
	if !ok {
		return -1, false
	}
	for i, c := range candidates {
		if c == got {
			return i, true
		}
	}
	return -1, false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
