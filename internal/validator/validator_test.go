package validator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/excel"
	"github.com/derekprior/cupplan/internal/planner"
	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/strategy"
)

func date(y, m, d int) config.Date {
	return config.Date{Time: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)}
}

func testConfig() *config.Config {
	return &config.Config{
		Name:          "Summer Cup",
		Surface:       config.Beach,
		Model:         config.LeagueKnockout,
		StartDate:     date(2026, 7, 11),
		EndDate:       date(2026, 7, 12),
		StartTime:     config.Clock{Minutes: 9 * 60},
		EndTime:       config.Clock{Minutes: 18 * 60},
		MatchDuration: 60,
		Fields:        2,
		Teams:         []string{"Sharks", "Jets", "Tide", "Gulls", "Crabs", "Pelicans", "Dunes", "Breakers"},
	}
}

func TestValidateGeneratedSchedule(t *testing.T) {
	cfg := testConfig()
	plan, err := planner.New(nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	f, err := excel.Generate(cfg, plan, &plan.Proposals[0])
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	path := t.TempDir() + "/schedule.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	for _, p := range plan.Proposals {
		t.Run(p.Label, func(t *testing.T) {
			violations, err := Validate(cfg, path, SheetName(p.Key))
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			warnings := 0
			for _, v := range violations {
				switch v.Type {
				case "error":
					t.Errorf("hard violation: %s", v.Message)
				case "warning":
					warnings++
				}
			}
			want := len(p.Result.Unscheduled) + len(schedule.SlotClashes(p.Result.Matches))
			if warnings != want {
				t.Errorf("warnings = %d, want %d", warnings, want)
			}
		})
	}
}

func TestValidateMissingSheet(t *testing.T) {
	cfg := testConfig()
	plan, err := planner.New(nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	f, err := excel.Generate(cfg, plan, &plan.Proposals[0])
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	path := t.TempDir() + "/schedule.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	if _, err := Validate(cfg, path, "Nope"); err == nil {
		t.Error("expected error for missing sheet")
	}
	if _, err := Validate(cfg, t.TempDir()+"/missing.xlsx", "Balanced"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"balanced":         "Balanced",
		"Long Rests":       "Long Rests",
		"compact-mornings": "Compact Mornings",
		"My Edit":          "My Edit",
	}
	for in, want := range tests {
		if got := SheetName(in); got != want {
			t.Errorf("SheetName(%q) = %q, want %q", in, got, want)
		}
	}
}

// sheetMatch builds a row on 07/11 starting at hour:00 on field, one hour long.
func sheetMatch(row, index, slot, field, hour int, id, a, b string) excel.SheetMatch {
	day := time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(hour) * time.Hour)
	return excel.SheetMatch{
		Row: row,
		Match: schedule.Match{
			Fixture: strategy.Fixture{ID: id, Group: "A", TeamA: a, TeamB: b},
			Cell: schedule.Cell{
				Index: index, Day: day, Slot: slot, Field: field,
				Start: start, End: start.Add(time.Hour),
			},
		},
	}
}

func errorsOf(violations []Violation) []string {
	var out []string
	for _, v := range violations {
		if v.Type == "error" {
			out = append(out, v.Message)
		}
	}
	return out
}

func TestCheckDoubleBooking(t *testing.T) {
	t.Run("distinct cells", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(3, 1, 0, 2, 9, "A-2-3", "Tide", "Gulls"),
		}
		if v := checkDoubleBooking(matches); len(v) != 0 {
			t.Errorf("expected 0 violations, got %v", v)
		}
	})

	t.Run("same cell and field", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(3, 0, 0, 1, 9, "A-2-3", "Tide", "Gulls"),
		}
		v := checkDoubleBooking(matches)
		if len(v) != 2 {
			t.Fatalf("expected 2 violations, got %v", v)
		}
		if v[0].Row != 3 || !strings.Contains(v[0].Message, "rows 2 and 3") {
			t.Errorf("violation = %+v", v[0])
		}
	})
}

func TestCheckDuplicateFixtures(t *testing.T) {
	matches := []excel.SheetMatch{
		sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
		sheetMatch(5, 3, 1, 2, 10, "A-0-1", "Sharks", "Jets"),
	}
	v := checkDuplicateFixtures(matches)
	if len(v) != 1 || v[0].Type != "error" || v[0].Row != 5 {
		t.Errorf("violations = %+v", v)
	}
}

func TestCheckRest(t *testing.T) {
	t.Run("back to back", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(3, 1, 0, 2, 9, "A-0-2", "Sharks", "Tide"),
		}
		v := checkRest(matches)
		if len(v) != 1 || v[0].Type != "error" {
			t.Fatalf("violations = %+v", v)
		}
		if !strings.Contains(v[0].Message, "Sharks") {
			t.Errorf("message = %q", v[0].Message)
		}
	})

	t.Run("rested", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(5, 3, 1, 2, 10, "A-0-2", "Sharks", "Tide"),
		}
		if v := checkRest(matches); len(v) != 0 {
			t.Errorf("violations = %+v", v)
		}
	})
}

func TestCheckClashes(t *testing.T) {
	// Sharks on fields 1 and 2 of the same slot, with a rested cell between.
	matches := []excel.SheetMatch{
		sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
		sheetMatch(3, 1, 0, 2, 9, "A-2-3", "Tide", "Gulls"),
		sheetMatch(4, 2, 0, 3, 9, "A-0-2", "Sharks", "Tide"),
	}

	t.Run("warning by default", func(t *testing.T) {
		v := checkClashes(testConfig(), matches)
		if len(v) != 2 {
			t.Fatalf("violations = %+v, want Sharks and Tide", v)
		}
		for _, x := range v {
			if x.Type != "warning" || !strings.Contains(x.Message, "at the same time") {
				t.Errorf("violation = %+v", x)
			}
		}
	})

	t.Run("error with exclusive slots", func(t *testing.T) {
		cfg := testConfig()
		cfg.ExclusiveSlots = true
		v := checkClashes(cfg, matches)
		if len(v) != 2 || v[0].Type != "error" {
			t.Errorf("violations = %+v", v)
		}
	})

	t.Run("different slots", func(t *testing.T) {
		apart := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(5, 3, 1, 2, 10, "A-0-2", "Sharks", "Tide"),
		}
		if v := checkClashes(testConfig(), apart); len(v) != 0 {
			t.Errorf("violations = %+v", v)
		}
	})
}

func TestCheckWindow(t *testing.T) {
	cfg := testConfig()

	t.Run("inside", func(t *testing.T) {
		matches := []excel.SheetMatch{sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets")}
		if v := checkWindow(cfg, matches); len(v) != 0 {
			t.Errorf("violations = %+v", v)
		}
	})

	t.Run("too early and too late", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 8, "A-0-1", "Sharks", "Jets"),
			sheetMatch(3, 1, 0, 1, 17, "A-0-2", "Sharks", "Tide"),
			sheetMatch(4, 2, 0, 1, 18, "A-0-3", "Sharks", "Gulls"),
		}
		v := checkWindow(cfg, matches)
		if len(v) != 2 || v[0].Row != 2 || v[1].Row != 4 {
			t.Errorf("violations = %+v", v)
		}
	})

	t.Run("outside dates", func(t *testing.T) {
		m := sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets")
		m.Match.Cell.Day = m.Match.Cell.Day.AddDate(0, 0, 5)
		v := checkWindow(cfg, []excel.SheetMatch{m})
		if len(v) != 1 || !strings.Contains(v[0].Message, "outside the tournament dates") {
			t.Errorf("violations = %+v", v)
		}
	})
}

func TestCheckFixtures(t *testing.T) {
	cfg := testConfig()
	cfg.Teams = []string{"Sharks", "Jets", "Tide"}

	t.Run("complete", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(4, 2, 1, 1, 10, "A-0-2", "Sharks", "Tide"),
			sheetMatch(6, 4, 2, 1, 11, "A-1-2", "Jets", "Tide"),
		}
		if v := checkFixtures(cfg, matches); len(v) != 0 {
			t.Errorf("violations = %+v", v)
		}
	})

	t.Run("missing fixture is a warning", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Jets"),
			sheetMatch(4, 2, 1, 1, 10, "A-0-2", "Sharks", "Tide"),
		}
		v := checkFixtures(cfg, matches)
		if len(v) != 1 || v[0].Type != "warning" || !strings.Contains(v[0].Message, "Jets vs Tide") {
			t.Errorf("violations = %+v", v)
		}
	})

	t.Run("unknown and renamed fixtures are errors", func(t *testing.T) {
		matches := []excel.SheetMatch{
			sheetMatch(2, 0, 0, 1, 9, "A-0-1", "Sharks", "Dolphins"),
			sheetMatch(4, 2, 1, 1, 10, "B-0-1", "Sharks", "Tide"),
		}
		errs := errorsOf(checkFixtures(cfg, matches))
		if len(errs) != 2 {
			t.Fatalf("errors = %v", errs)
		}
		if !strings.Contains(errs[0], "should be Sharks vs Jets") {
			t.Errorf("errs[0] = %q", errs[0])
		}
		if !strings.Contains(errs[1], "B-0-1 is not part") {
			t.Errorf("errs[1] = %q", errs[1])
		}
	})
}
