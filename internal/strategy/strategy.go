package strategy

import (
	"fmt"
	"strings"
)

// Group is a seeded pool of teams. Label is derived from the group's index
// (A, B, C, ...).
type Group struct {
	Label string
	Teams []string
}

// Name is the display name used on sheets and tables.
func (g Group) Name() string {
	return "Group " + g.Label
}

// Fixture is a pairing of two teams within one group. The ID is built from
// the group label and the teams' positions inside the group, so renaming a
// team does not change it.
type Fixture struct {
	ID    string
	Group string
	TeamA string
	TeamB string
}

// Teams returns both sides of the fixture.
func (f Fixture) Teams() [2]string {
	return [2]string{f.TeamA, f.TeamB}
}

// Involves reports whether team plays in this fixture.
func (f Fixture) Involves(team string) bool {
	return f.TeamA == team || f.TeamB == team
}

// CleanTeams trims names, drops blank entries and removes duplicates while
// keeping seed order. The dropped entries are returned so callers can warn
// the operator.
func CleanTeams(teams []string) (kept, dropped []string) {
	seen := make(map[string]bool)
	for _, raw := range teams {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			dropped = append(dropped, raw)
			continue
		}
		seen[name] = true
		kept = append(kept, name)
	}
	return kept, dropped
}

// GroupLabel returns the label for the group at index i: A..Z, AA, AB, ...
func GroupLabel(i int) string {
	col := i + 1
	label := ""
	for col > 0 {
		col--
		label = string(rune('A'+col%26)) + label
		col /= 26
	}
	return label
}

// Distribute splits seeded teams into groupCount groups with a serpentine
// pass: 1..G forward, then G..1 back, and so on. A groupCount below one is
// treated as one.
func Distribute(teams []string, groupCount int) []Group {
	if groupCount < 1 {
		groupCount = 1
	}

	groups := make([]Group, groupCount)
	for i := range groups {
		groups[i].Label = GroupLabel(i)
	}

	for k, team := range teams {
		pos := k % groupCount
		if (k/groupCount)%2 == 1 {
			pos = groupCount - 1 - pos
		}
		groups[pos].Teams = append(groups[pos].Teams, team)
	}

	return groups
}

// GenerateFixtures returns one fixture per unordered pair of teams, iterating
// i over the group and j over the teams after i. That order is the default
// priority used during slot assignment.
func GenerateFixtures(teams []string, label string) []Fixture {
	var fixtures []Fixture
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			fixtures = append(fixtures, Fixture{
				ID:    FixtureID(label, i, j),
				Group: label,
				TeamA: teams[i],
				TeamB: teams[j],
			})
		}
	}
	return fixtures
}

// FixtureID builds the stable identifier for positions i and j of a group.
func FixtureID(label string, i, j int) string {
	return fmt.Sprintf("%s-%d-%d", label, i, j)
}

// AllFixtures concatenates the fixtures of every group in group order.
func AllFixtures(groups []Group) []Fixture {
	var fixtures []Fixture
	for _, g := range groups {
		fixtures = append(fixtures, GenerateFixtures(g.Teams, g.Label)...)
	}
	return fixtures
}
