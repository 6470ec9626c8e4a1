package standings

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minSimilarity is the lowest normalized Levenshtein similarity accepted as
// a match for a typed team name.
const minSimilarity = 0.6

// ResolveTeam maps a name typed by an operator onto one of teams. An exact
// case-insensitive match wins; otherwise the closest name by edit distance
// is used if it is similar enough.
func ResolveTeam(name string, teams []string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return "", fmt.Errorf("team name is empty")
	}

	for _, team := range teams {
		if strings.ToLower(team) == want {
			return team, nil
		}
	}

	best := ""
	bestSimilarity := 0.0
	for _, team := range teams {
		candidate := strings.ToLower(team)
		distance := fuzzy.LevenshteinDistance(want, candidate)
		maxLen := float64(max(len(want), len(candidate)))
		similarity := 1 - float64(distance)/maxLen
		if similarity >= minSimilarity && similarity > bestSimilarity {
			best = team
			bestSimilarity = similarity
		}
	}

	if best == "" {
		return "", fmt.Errorf("team not found: %s", name)
	}
	return best, nil
}
