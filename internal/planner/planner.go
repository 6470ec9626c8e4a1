package planner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/strategy"
)

var (
	// ErrNoCapacity means the daily window cannot fit a single match.
	ErrNoCapacity = errors.New("daily window is too short for one match")
	// ErrNothingToSchedule means there are no fixtures to place yet.
	ErrNothingToSchedule = errors.New("nothing to schedule")
)

// Plan is everything produced by one scheduling run.
type Plan struct {
	Teams     []string
	Dropped   []string
	Groups    []strategy.Group
	Fixtures  []strategy.Fixture
	Cells     []schedule.Cell
	Proposals []schedule.Proposal
}

// Planner runs the full pipeline: seeding, fixtures, calendar and
// proposals. It holds no state between runs.
type Planner struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// GroupCount is the configured group count, or the balanced suggestion for
// the team count when none is set. Never below one.
func GroupCount(cfg *config.Config, teams int) int {
	if cfg.Groups > 0 {
		return cfg.Groups
	}
	groups, _ := strategy.SuggestGroups(teams)
	return max(groups, 1)
}

// Run computes a Plan from scratch. A calendar that cannot fit a match
// returns ErrNoCapacity; a team list that yields no fixtures returns
// ErrNothingToSchedule. Fixtures that do not fit are reported per proposal,
// not as an error.
func (p *Planner) Run(ctx context.Context, cfg *config.Config) (*Plan, error) {
	teams, dropped := strategy.CleanTeams(cfg.Teams)
	if len(dropped) > 0 {
		p.logger.Warn("ignoring invalid team entries", zap.Int("count", len(dropped)), zap.Strings("entries", dropped))
	}

	groupCount := GroupCount(cfg, len(teams))
	groups := strategy.Distribute(teams, groupCount)
	fixtures := strategy.AllFixtures(groups)
	p.logger.Debug("generated fixtures",
		zap.Int("teams", len(teams)),
		zap.Int("groups", groupCount),
		zap.Int("fixtures", len(fixtures)))

	plan := &Plan{
		Teams:    teams,
		Dropped:  dropped,
		Groups:   groups,
		Fixtures: fixtures,
	}

	if len(fixtures) == 0 {
		return plan, fmt.Errorf("%d teams in %d groups: %w", len(teams), groupCount, ErrNothingToSchedule)
	}

	plan.Cells = schedule.BuildCalendar(cfg)
	if len(plan.Cells) == 0 {
		return plan, fmt.Errorf("%s-%s window, %d minute matches: %w",
			cfg.StartTime, cfg.EndTime, cfg.MatchDuration, ErrNoCapacity)
	}
	p.logger.Debug("built calendar",
		zap.Int("days", len(cfg.Days())),
		zap.Int("slots_per_day", schedule.SlotsPerDay(cfg)),
		zap.Int("cells", len(plan.Cells)))

	proposals, err := schedule.GenerateProposals(ctx, cfg, fixtures)
	if err != nil {
		return plan, err
	}
	plan.Proposals = proposals

	for _, prop := range proposals {
		fields := []zap.Field{
			zap.String("proposal", prop.Key),
			zap.Int("scheduled", len(prop.Result.Matches)),
			zap.Int("unscheduled", len(prop.Result.Unscheduled)),
			zap.Any("rejections", prop.Result.Rejections),
		}
		if prop.Result.Complete() {
			p.logger.Info("proposal ready", fields...)
		} else {
			p.logger.Warn("proposal incomplete", fields...)
		}
	}

	return plan, nil
}
