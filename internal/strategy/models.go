package strategy

import (
	"fmt"

	"github.com/derekprior/cupplan/internal/config"
)

// Model is a suggested competition structure the operator can choose from
// before seeding.
type Model struct {
	ID            string
	Title         string
	Description   string
	Groups        int
	TeamsPerGroup int
	HasPlayoffs   bool
	Highlights    []string
}

// SuggestGroups returns a group count and group size for a team count.
func SuggestGroups(teams int) (groups, perGroup int) {
	switch {
	case teams <= 6:
		return 1, teams
	case teams <= 8:
		return 2, ceilDiv(teams, 2)
	case teams <= 12:
		return 3, ceilDiv(teams, 3)
	default:
		return 4, ceilDiv(teams, 4)
	}
}

// SuggestModels lists the competition models that fit the configuration.
// "balanced" and "relaxed" are always offered; "competitive" needs at least
// ten teams.
func SuggestModels(cfg *config.Config) []Model {
	baseID := fmt.Sprintf("%d-%s", cfg.TeamCount, cfg.Model)
	groups, perGroup := SuggestGroups(cfg.TeamCount)

	pace := "maximum competitive rhythm"
	sunday := "up to 3"
	if cfg.Surface == config.Beach {
		pace = "short, fresh sessions"
		sunday = "up to 2"
	}

	models := []Model{{
		ID:            baseID + "-balanced",
		Title:         "Balanced",
		Description:   fmt.Sprintf("Group stage followed by even knockout rounds for %d teams.", cfg.TeamCount),
		Groups:        groups,
		TeamsPerGroup: perGroup,
		HasPlayoffs:   cfg.Model != config.LeagueOnly,
		Highlights: []string{
			"At most 4 matches per team on Saturday",
			fmt.Sprintf("Sunday with %s matches", sunday),
			"Pace tuned for " + pace,
		},
	}}

	if cfg.TeamCount >= 10 {
		g := max(groups, 3)
		models = append(models, Model{
			ID:            baseID + "-competitive",
			Title:         "Competitive",
			Description:   "More crossovers so qualification is fair and upsets are possible.",
			Groups:        g,
			TeamsPerGroup: ceilDiv(cfg.TeamCount, g),
			HasPlayoffs:   true,
			Highlights: []string{
				"Repechage round before the quarter-finals",
				"At least 5 matches per team",
				"Suits venues with several fields",
			},
		})
	}

	relaxed := Model{
		ID:            baseID + "-relaxed",
		Title:         "Relaxed",
		Description:   "Keeps back-to-back matches to a minimum and maximizes rest.",
		Groups:        groups,
		TeamsPerGroup: perGroup,
		HasPlayoffs:   true,
		Highlights: []string{
			"At least one slot of rest between matches",
			"Early finish on Sunday",
			"Suits teams travelling long distances",
		},
	}
	if cfg.Model == config.KnockoutOnly {
		relaxed.Groups = 0
		relaxed.TeamsPerGroup = 0
	}
	models = append(models, relaxed)

	return models
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
