package standings

import (
	"sort"

	"github.com/derekprior/cupplan/internal/schedule"
)

// Points awarded per played match. A draw awards 0 points to both teams,
// less than a loss; tables reproduce that rule as recorded.
const (
	// WinPoints is awarded to the team with the higher score.
	WinPoints  = 2
	// LossPoints is awarded to the team with the lower score.
	LossPoints = 1
)

// Result is a final score keyed by fixture ID. ScoreA belongs to the
// fixture's TeamA.
type Result struct {
	FixtureID string
	ScoreA    int
	ScoreB    int
}

// Row is one team's line in a group table.
type Row struct {
	Team   string
	Played int
	Wins   int
	Losses int
	Points int
}

// Compute folds results into per-group tables keyed by group label. A win is
// worth WinPoints and a loss LossPoints; a draw counts as played but awards
// nothing. Teams that have not played are left out. Rows are ordered by
// points, then wins, then the order in which the team first appears in
// matches.
func Compute(matches []schedule.Match, results map[string]Result) map[string][]Row {
	tables := make(map[string][]*Row)
	index := make(map[string]map[string]*Row)

	entry := func(group, team string) *Row {
		if index[group] == nil {
			index[group] = make(map[string]*Row)
		}
		r, ok := index[group][team]
		if !ok {
			r = &Row{Team: team}
			index[group][team] = r
			tables[group] = append(tables[group], r)
		}
		return r
	}

	for _, m := range matches {
		f := m.Fixture
		a := entry(f.Group, f.TeamA)
		b := entry(f.Group, f.TeamB)

		res, ok := results[f.ID]
		if !ok {
			continue
		}

		a.Played++
		b.Played++

		switch {
		case res.ScoreA > res.ScoreB:
			a.Wins++
			a.Points += WinPoints
			b.Losses++
			b.Points += LossPoints
		case res.ScoreB > res.ScoreA:
			b.Wins++
			b.Points += WinPoints
			a.Losses++
			a.Points += LossPoints
		}
	}

	out := make(map[string][]Row, len(tables))
	for group, rows := range tables {
		var played []Row
		for _, r := range rows {
			if r.Played > 0 {
				played = append(played, *r)
			}
		}
		sort.SliceStable(played, func(i, j int) bool {
			if played[i].Points != played[j].Points {
				return played[i].Points > played[j].Points
			}
			return played[i].Wins > played[j].Wins
		})
		if len(played) > 0 {
			out[group] = played
		}
	}
	return out
}

// Groups returns the table keys in label order.
func Groups(tables map[string][]Row) []string {
	groups := make([]string, 0, len(tables))
	for g := range tables {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) < len(groups[j])
		}
		return groups[i] < groups[j]
	})
	return groups
}
