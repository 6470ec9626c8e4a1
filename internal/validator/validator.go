package validator

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/excel"
	"github.com/derekprior/cupplan/internal/planner"
	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/strategy"
)

// Violation represents a constraint violation found during validation.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// SheetName maps a proposal key or label to its sheet name. Anything else is
// returned unchanged so hand-made sheets can be checked too.
func SheetName(proposal string) string {
	for _, v := range schedule.Variants {
		if v.Key == proposal || v.Label == proposal {
			return v.Label
		}
	}
	return proposal
}

// Validate reads one proposal sheet of a schedule workbook and checks it
// against the tournament config. Broken rest or double-booked cells are
// errors. Fixtures missing from the sheet are warnings, as are teams booked
// on two fields at once unless the config asks for exclusive slots.
func Validate(cfg *config.Config, path, sheet string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	matches, err := excel.ReadSchedule(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	return Check(cfg, matches), nil
}

// Check runs every rule over matches already read from a sheet.
func Check(cfg *config.Config, matches []excel.SheetMatch) []Violation {
	var violations []Violation

	// Hard constraints
	violations = append(violations, checkDoubleBooking(matches)...)
	violations = append(violations, checkDuplicateFixtures(matches)...)
	violations = append(violations, checkRest(matches)...)
	violations = append(violations, checkWindow(cfg, matches)...)
	violations = append(violations, checkClashes(cfg, matches)...)

	// Fixture list
	violations = append(violations, checkFixtures(cfg, matches)...)

	return violations
}

func checkDoubleBooking(matches []excel.SheetMatch) []Violation {
	type fieldTime struct {
		start time.Time
		field int
	}
	firstCell := make(map[int]int)
	firstSlot := make(map[fieldTime]int)

	var violations []Violation
	for _, m := range matches {
		c := m.Match.Cell
		if row, ok := firstCell[c.Index]; ok {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("cell %d is used twice (rows %d and %d)", c.Index+1, row, m.Row),
			})
		} else {
			firstCell[c.Index] = m.Row
		}

		key := fieldTime{c.Start, c.Field}
		if row, ok := firstSlot[key]; ok {
			violations = append(violations, Violation{
				Row:  m.Row,
				Type: "error",
				Message: fmt.Sprintf("field %d at %s is booked twice (rows %d and %d)",
					c.Field, c.Start.Format("01/02 15:04"), row, m.Row),
			})
		} else {
			firstSlot[key] = m.Row
		}
	}
	return violations
}

func checkDuplicateFixtures(matches []excel.SheetMatch) []Violation {
	seen := make(map[string]int)
	var violations []Violation
	for _, m := range matches {
		id := m.Match.Fixture.ID
		if row, ok := seen[id]; ok {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("fixture %s is scheduled twice (rows %d and %d)", id, row, m.Row),
			})
			continue
		}
		seen[id] = m.Row
	}
	return violations
}

func checkRest(matches []excel.SheetMatch) []Violation {
	var violations []Violation
	for _, msg := range schedule.RestViolations(matchList(matches)) {
		violations = append(violations, Violation{Type: "error", Message: msg})
	}
	return violations
}

func checkClashes(cfg *config.Config, matches []excel.SheetMatch) []Violation {
	severity := "warning"
	if cfg.ExclusiveSlots {
		severity = "error"
	}
	var violations []Violation
	for _, msg := range schedule.SlotClashes(matchList(matches)) {
		violations = append(violations, Violation{Type: severity, Message: msg})
	}
	return violations
}

func matchList(matches []excel.SheetMatch) []schedule.Match {
	list := make([]schedule.Match, len(matches))
	for i, m := range matches {
		list[i] = m.Match
	}
	return list
}

func checkWindow(cfg *config.Config, matches []excel.SheetMatch) []Violation {
	var violations []Violation
	for _, m := range matches {
		c := m.Match.Cell
		if c.Day.Before(cfg.StartDate.Time) || c.Day.After(cfg.EndDate.Time) {
			violations = append(violations, Violation{
				Row:  m.Row,
				Type: "error",
				Message: fmt.Sprintf("%s is on %s, outside the tournament dates",
					m.Match.Fixture.ID, c.Day.Format("01/02/2006")),
			})
			continue
		}
		start := minutesOfDay(c.Start)
		end := minutesOfDay(c.End)
		if start < cfg.StartTime.Minutes || end > cfg.EndTime.Minutes || end <= start {
			violations = append(violations, Violation{
				Row:  m.Row,
				Type: "error",
				Message: fmt.Sprintf("%s runs %s-%s, outside the playing window %s-%s",
					m.Match.Fixture.ID, config.FormatMinutes(start), config.FormatMinutes(end),
					cfg.StartTime, cfg.EndTime),
			})
		}
	}
	return violations
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// checkFixtures compares the sheet with the fixtures the config produces.
// Unknown fixtures and renamed teams are errors; fixtures left off the sheet
// are warnings.
func checkFixtures(cfg *config.Config, matches []excel.SheetMatch) []Violation {
	teams, _ := strategy.CleanTeams(cfg.Teams)
	groups := strategy.Distribute(teams, planner.GroupCount(cfg, len(teams)))
	expected := strategy.AllFixtures(groups)

	byID := make(map[string]strategy.Fixture, len(expected))
	for _, fx := range expected {
		byID[fx.ID] = fx
	}

	var violations []Violation
	scheduled := make(map[string]bool)
	for _, m := range matches {
		got := m.Match.Fixture
		scheduled[got.ID] = true
		want, ok := byID[got.ID]
		if !ok {
			violations = append(violations, Violation{
				Row:     m.Row,
				Type:    "error",
				Message: fmt.Sprintf("fixture %s is not part of this tournament", got.ID),
			})
			continue
		}
		if got.Teams() != want.Teams() {
			violations = append(violations, Violation{
				Row:  m.Row,
				Type: "error",
				Message: fmt.Sprintf("fixture %s is %s vs %s but should be %s vs %s",
					got.ID, got.TeamA, got.TeamB, want.TeamA, want.TeamB),
			})
		}
	}

	for _, fx := range expected {
		if !scheduled[fx.ID] {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("Group %s: %s vs %s (%s) is not scheduled", fx.Group, fx.TeamA, fx.TeamB, fx.ID),
			})
		}
	}
	return violations
}
