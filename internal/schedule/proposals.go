package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/strategy"
)

// Variant describes how one proposal perturbs the baseline assignment.
// Stagger shifts the first slot of each day (minutes); Offset rotates the
// fixture scan order.
type Variant struct {
	Key       string
	Label     string
	Rationale string
	Stagger   int
	Offset    int
}

// Variants are the three proposals offered for every tournament.
var Variants = []Variant{
	{
		Key:       "balanced",
		Label:     "Balanced",
		Rationale: "Keeps regular slots for every team.",
	},
	{
		Key:       "long-rests",
		Label:     "Long Rests",
		Rationale: "Starts each day later and spreads matches to add rest between them.",
		Stagger:   50,
		Offset:    5,
	},
	{
		Key:       "compact-mornings",
		Label:     "Compact Mornings",
		Rationale: "Packs matches into the first slots to free up afternoons.",
		Offset:    10,
	},
}

// Proposal is one named alternative schedule.
type Proposal struct {
	ID        string
	Key       string
	Label     string
	Rationale string
	Result    *Result
}

// ProposalID derives a stable identifier from the tournament slug and the
// variant key.
func ProposalID(slug, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(slug+"/"+key)).String()
}

// GenerateProposals runs Assign once per variant. Each variant builds its own
// calendar, so the passes share nothing and run concurrently; the output
// order always matches Variants.
func GenerateProposals(ctx context.Context, cfg *config.Config, fixtures []strategy.Fixture) ([]Proposal, error) {
	proposals := make([]Proposal, len(Variants))
	slug := cfg.Slug()

	var opts []Option
	if cfg.ExclusiveSlots {
		opts = append(opts, ExclusiveSlots())
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range Variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cells := BuildStaggeredCalendar(cfg, v.Stagger)
			proposals[i] = Proposal{
				ID:        ProposalID(slug, v.Key),
				Key:       v.Key,
				Label:     v.Label,
				Rationale: v.Rationale,
				Result:    Assign(fixtures, cells, v.Offset, opts...),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generating proposals: %w", err)
	}

	return proposals, nil
}

// Select finds a proposal by key, label or ID.
func Select(proposals []Proposal, name string) (*Proposal, error) {
	for i := range proposals {
		p := &proposals[i]
		if p.Key == name || p.Label == name || p.ID == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown proposal %q", name)
}
