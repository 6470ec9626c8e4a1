package schedule

import (
	"context"
	"reflect"
	"testing"

	"github.com/derekprior/cupplan/internal/strategy"
)

func proposalFixtures() []strategy.Fixture {
	teams := []string{"Sharks", "Jets", "Tide", "Gulls", "Crabs", "Pelicans", "Dunes", "Breakers"}
	return strategy.AllFixtures(strategy.Distribute(teams, 2))
}

func TestGenerateProposals(t *testing.T) {
	cfg := testConfig()
	cfg.MatchDuration = 60
	fixtures := proposalFixtures()

	proposals, err := GenerateProposals(context.Background(), cfg, fixtures)
	if err != nil {
		t.Fatalf("GenerateProposals() error: %v", err)
	}

	t.Run("three variants in order", func(t *testing.T) {
		if len(proposals) != 3 {
			t.Fatalf("proposals = %d, want 3", len(proposals))
		}
		for i, key := range []string{"balanced", "long-rests", "compact-mornings"} {
			if proposals[i].Key != key {
				t.Errorf("proposal %d = %q, want %q", i, proposals[i].Key, key)
			}
			if proposals[i].Rationale == "" {
				t.Errorf("proposal %q has no rationale", key)
			}
		}
	})

	t.Run("every fixture placed without rest violations", func(t *testing.T) {
		for _, p := range proposals {
			if !p.Result.Complete() {
				t.Errorf("%s: %d unscheduled", p.Key, len(p.Result.Unscheduled))
			}
			if v := RestViolations(p.Result.Matches); len(v) != 0 {
				t.Errorf("%s: %v", p.Key, v)
			}
		}
	})

	t.Run("long rests starts later", func(t *testing.T) {
		first := proposals[1].Result.Matches[0].Cell.Start
		if first.Hour() != 9 || first.Minute() != 50 {
			t.Errorf("first match at %s, want 09:50", first.Format("15:04"))
		}
	})

	t.Run("ids are stable and distinct", func(t *testing.T) {
		again, err := GenerateProposals(context.Background(), cfg, fixtures)
		if err != nil {
			t.Fatalf("GenerateProposals() error: %v", err)
		}
		seen := make(map[string]bool)
		for i, p := range proposals {
			if p.ID != again[i].ID {
				t.Errorf("%s id changed: %s -> %s", p.Key, p.ID, again[i].ID)
			}
			if seen[p.ID] {
				t.Errorf("duplicate id %s", p.ID)
			}
			seen[p.ID] = true
		}
		if !reflect.DeepEqual(proposals, again) {
			t.Error("proposals differ between runs")
		}
	})

	t.Run("id depends on tournament", func(t *testing.T) {
		if ProposalID("summer-cup", "balanced") == ProposalID("winter-cup", "balanced") {
			t.Error("different tournaments share a proposal id")
		}
	})
}

func TestGenerateProposalsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := GenerateProposals(ctx, testConfig(), proposalFixtures()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSelect(t *testing.T) {
	proposals, err := GenerateProposals(context.Background(), testConfig(), proposalFixtures())
	if err != nil {
		t.Fatalf("GenerateProposals() error: %v", err)
	}

	for _, name := range []string{"long-rests", "Long Rests", proposals[1].ID} {
		p, err := Select(proposals, name)
		if err != nil {
			t.Fatalf("Select(%q) error: %v", name, err)
		}
		if p.Key != "long-rests" {
			t.Errorf("Select(%q) = %s", name, p.Key)
		}
	}

	if _, err := Select(proposals, "fastest"); err == nil {
		t.Error("expected error for unknown proposal")
	}
}

func TestGenerateProposalsExclusiveSlots(t *testing.T) {
	cfg := testConfig()
	cfg.MatchDuration = 60
	cfg.Fields = 3
	cfg.ExclusiveSlots = true

	proposals, err := GenerateProposals(context.Background(), cfg, proposalFixtures())
	if err != nil {
		t.Fatalf("GenerateProposals() error: %v", err)
	}
	for _, p := range proposals {
		if c := SlotClashes(p.Result.Matches); len(c) != 0 {
			t.Errorf("%s: %v", p.Key, c)
		}
	}
}
