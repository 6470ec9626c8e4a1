package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/standings"
	"github.com/derekprior/cupplan/internal/strategy"
)

// SheetMatch is a fixture read back from a proposal sheet, with the sheet
// row it came from.
type SheetMatch struct {
	Row   int
	Match schedule.Match
}

// ReadSchedule reads the fixtures bound on a proposal sheet. Rows with no
// fixture are free cells and are skipped. Slots are rebuilt from the
// distinct start times of each day, so two rows share a slot exactly when
// they share a date and a start time.
func ReadSchedule(f *excelize.File, sheet string) ([]SheetMatch, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", sheet)
	}

	var matches []SheetMatch
	for i, row := range rows {
		if i == 0 || col(row, 7) == "" {
			continue
		}
		r := i + 1

		index, err := strconv.Atoi(col(row, 1))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid cell %q", r, col(row, 1))
		}
		day, err := time.Parse(dateLayout, col(row, 2))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", r, col(row, 2))
		}
		start, end, err := parseTimeRange(day, col(row, 4))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		field, err := strconv.Atoi(col(row, 5))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid field %q", r, col(row, 5))
		}

		matches = append(matches, SheetMatch{
			Row: r,
			Match: schedule.Match{
				Fixture: strategy.Fixture{
					ID:    col(row, 7),
					Group: col(row, 6),
					TeamA: col(row, 8),
					TeamB: col(row, 9),
				},
				Cell: schedule.Cell{
					Index: index - 1,
					Day:   day,
					Field: field,
					Start: start,
					End:   end,
				},
			},
		})
	}

	assignSlots(matches)
	return matches, nil
}

func parseTimeRange(day time.Time, s string) (start, end time.Time, err error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return start, end, fmt.Errorf("invalid time %q", s)
	}
	a, err := time.Parse(timeLayout, strings.TrimSpace(from))
	if err != nil {
		return start, end, fmt.Errorf("invalid time %q", s)
	}
	b, err := time.Parse(timeLayout, strings.TrimSpace(to))
	if err != nil {
		return start, end, fmt.Errorf("invalid time %q", s)
	}
	start = day.Add(time.Duration(a.Hour()*60+a.Minute()) * time.Minute)
	end = day.Add(time.Duration(b.Hour()*60+b.Minute()) * time.Minute)
	return start, end, nil
}

func assignSlots(matches []SheetMatch) {
	starts := make(map[time.Time][]time.Time)
	for _, m := range matches {
		day := m.Match.Cell.Day
		starts[day] = append(starts[day], m.Match.Cell.Start)
	}
	slotOf := make(map[time.Time]int)
	for _, times := range starts {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		slot := 0
		for i, t := range times {
			if i > 0 && !t.Equal(times[i-1]) {
				slot++
			}
			slotOf[t] = slot
		}
	}
	for i := range matches {
		matches[i].Match.Cell.Slot = slotOf[matches[i].Match.Cell.Start]
	}
}

// ResultRow is one fixture of the Results sheet. Score is nil until both
// scores have been entered.
type ResultRow struct {
	Row     int
	Fixture strategy.Fixture
	Score   *standings.Result
}

// ReadResults reads every fixture and any entered score from the Results
// sheet. A row with only one score, or a score that is not a non-negative
// whole number, is an error.
func ReadResults(f *excelize.File) ([]ResultRow, error) {
	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ResultsSheet, err)
	}

	var results []ResultRow
	for i, row := range rows {
		if i == 0 || col(row, resultFixtureCol) == "" {
			continue
		}
		r := i + 1
		rr := ResultRow{
			Row: r,
			Fixture: strategy.Fixture{
				ID:    col(row, resultFixtureCol),
				Group: col(row, 2),
				TeamA: col(row, 6),
				TeamB: col(row, 7),
			},
		}

		a, b := strings.TrimSpace(col(row, resultScoreACol)), strings.TrimSpace(col(row, resultScoreBCol))
		switch {
		case a == "" && b == "":
		case a == "" || b == "":
			return nil, fmt.Errorf("row %d: %s has only one score", r, rr.Fixture.ID)
		default:
			scoreA, errA := parseScore(a)
			scoreB, errB := parseScore(b)
			if errA != nil || errB != nil {
				return nil, fmt.Errorf("row %d: invalid score %s-%s", r, a, b)
			}
			rr.Score = &standings.Result{FixtureID: rr.Fixture.ID, ScoreA: scoreA, ScoreB: scoreB}
		}
		results = append(results, rr)
	}
	return results, nil
}

func parseScore(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative score %d", n)
	}
	return n, nil
}

// Standings computes group tables from the rows of the Results sheet.
func Standings(rows []ResultRow) map[string][]standings.Row {
	matches := make([]schedule.Match, 0, len(rows))
	results := make(map[string]standings.Result)
	for _, r := range rows {
		matches = append(matches, schedule.Match{Fixture: r.Fixture})
		if r.Score != nil {
			results[r.Fixture.ID] = *r.Score
		}
	}
	return standings.Compute(matches, results)
}

// WriteStandings replaces the Standings sheet with one table per group.
func WriteStandings(f *excelize.File, tables map[string][]standings.Row) error {
	sheet := StandingsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("clearing %s: %w", sheet, err)
		}
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	st := newStyles(f)

	groups := standings.Groups(tables)
	if len(groups) == 0 {
		f.SetCellValue(sheet, "A1", "No results recorded yet")
		return nil
	}

	row := 1
	for _, label := range groups {
		f.SetCellValue(sheet, cellRef(1, row), strategy.Group{Label: label}.Name())
		st.apply(f, sheet, st.title, 1, 1, row)
		row++
		writeHeaders(f, st, sheet, row, []string{"Team", "Played", "Wins", "Losses", "Points"})
		row++
		for _, r := range tables[label] {
			f.SetCellValue(sheet, cellRef(1, row), r.Team)
			f.SetCellValue(sheet, cellRef(2, row), r.Played)
			f.SetCellValue(sheet, cellRef(3, row), r.Wins)
			f.SetCellValue(sheet, cellRef(4, row), r.Losses)
			f.SetCellValue(sheet, cellRef(5, row), r.Points)
			st.apply(f, sheet, st.cell, 1, 1, row)
			st.apply(f, sheet, st.center, 2, 5, row)
			row++
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "E", 10)
	return nil
}

// UpdateSchedule rewrites the fixture columns of a proposal sheet from
// matches. Rows are located by their cell number; cells with no match are
// cleared. The calendar columns are left alone.
func UpdateSchedule(f *excelize.File, sheet string, matches []schedule.Match) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sheet, err)
	}

	rowOf := make(map[int]int)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		index, err := strconv.Atoi(col(row, 1))
		if err != nil {
			continue
		}
		rowOf[index-1] = i + 1
	}

	for _, m := range matches {
		if _, ok := rowOf[m.Cell.Index]; !ok {
			return fmt.Errorf("cell %d is not on %s", m.Cell.Index+1, sheet)
		}
	}

	for _, r := range rowOf {
		for c := 6; c <= 9; c++ {
			f.SetCellValue(sheet, cellRef(c, r), "")
		}
	}
	for _, m := range matches {
		r := rowOf[m.Cell.Index]
		f.SetCellValue(sheet, cellRef(6, r), m.Fixture.Group)
		f.SetCellValue(sheet, cellRef(7, r), m.Fixture.ID)
		f.SetCellValue(sheet, cellRef(8, r), m.Fixture.TeamA)
		f.SetCellValue(sheet, cellRef(9, r), m.Fixture.TeamB)
	}
	return nil
}

// ResultsProposal returns the label of the proposal the Results sheet was
// built from, as marked on the Proposals sheet. It is empty when no proposal
// is marked.
func ResultsProposal(f *excelize.File) (string, error) {
	rows, err := f.GetRows(ProposalsSheet)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ProposalsSheet, err)
	}
	for i, row := range rows {
		if i < 4 {
			continue
		}
		if strings.TrimSpace(col(row, 7)) == "✓" {
			return col(row, 1), nil
		}
	}
	return "", nil
}

// UpdateResults rewrites the date, time and field of every Results row whose
// fixture is in matches. Scores are left alone.
func UpdateResults(f *excelize.File, matches []schedule.Match) error {
	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ResultsSheet, err)
	}

	byID := make(map[string]schedule.Cell, len(matches))
	for _, m := range matches {
		byID[m.Fixture.ID] = m.Cell
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		c, ok := byID[strings.TrimSpace(col(row, resultFixtureCol))]
		if !ok {
			continue
		}
		r := i + 1
		f.SetCellValue(ResultsSheet, cellRef(resultDateCol, r), c.Day.Format(dateLayout))
		f.SetCellValue(ResultsSheet, cellRef(resultTimeCol, r), c.Start.Format(timeLayout))
		f.SetCellValue(ResultsSheet, cellRef(resultFieldCol, r), c.Field)
	}
	return nil
}
