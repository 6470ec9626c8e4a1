package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/planner"
	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/strategy"
)

const (
	ProposalsSheet   = "Proposals"
	GroupsSheet      = "Groups"
	UnscheduledSheet = "Unscheduled"
	ResultsSheet     = "Results"
	StandingsSheet   = "Standings"
)

const (
	dateLayout = "01/02/2006"
	timeLayout = "15:04"
)

var scheduleHeaders = []string{"Cell", "Date", "Day", "Time", "Field", "Group", "Fixture", "Team A", "Team B"}

var resultHeaders = []string{"Fixture", "Group", "Date", "Time", "Field", "Team A", "Team B", "Score A", "Score B"}

// Result sheet columns, 1-indexed.
const (
	resultFixtureCol = 1
	resultDateCol    = 3
	resultTimeCol    = 4
	resultFieldCol   = 5
	resultScoreACol  = 8
	resultScoreBCol  = 9
)

type styles struct {
	header int
	cell   int
	center int
	title  int
}

func newStyles(f *excelize.File) *styles {
	header, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	cell, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})
	center, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 14, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	title, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Family: "Arial"},
	})
	return &styles{header: header, cell: cell, center: center, title: title}
}

func (s *styles) apply(f *excelize.File, sheet string, style, fromCol, toCol, row int) {
	if style == 0 {
		return
	}
	f.SetCellStyle(sheet, cellRef(fromCol, row), cellRef(toCol, row), style)
}

// Generate creates a workbook with a summary sheet, one sheet per proposal,
// the seeded groups, every unscheduled fixture and a blank results sheet
// for the selected proposal.
func Generate(cfg *config.Config, plan *planner.Plan, selected *schedule.Proposal) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")
	st := newStyles(f)

	if err := writeProposalsSheet(f, st, cfg, plan.Proposals, selected); err != nil {
		return nil, fmt.Errorf("writing proposals sheet: %w", err)
	}

	for i := range plan.Proposals {
		p := &plan.Proposals[i]
		if err := writeScheduleSheet(f, st, p); err != nil {
			return nil, fmt.Errorf("writing %s sheet: %w", p.Label, err)
		}
	}

	if err := writeGroupsSheet(f, st, plan.Groups); err != nil {
		return nil, fmt.Errorf("writing groups sheet: %w", err)
	}

	if err := writeUnscheduledSheet(f, st, plan.Proposals); err != nil {
		return nil, fmt.Errorf("writing unscheduled sheet: %w", err)
	}

	if selected != nil {
		if err := writeResultsSheet(f, st, selected.Result); err != nil {
			return nil, fmt.Errorf("writing results sheet: %w", err)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeHeaders(f *excelize.File, st *styles, sheet string, row int, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, row), h)
	}
	st.apply(f, sheet, st.header, 1, len(headers), row)
}

func writeProposalsSheet(f *excelize.File, st *styles, cfg *config.Config, proposals []schedule.Proposal, selected *schedule.Proposal) error {
	sheet := ProposalsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	title := cfg.Name
	if title == "" {
		title = "Tournament"
	}
	if cfg.Venue != "" {
		title += " @ " + cfg.Venue
	}
	f.SetCellValue(sheet, "A1", title)
	st.apply(f, sheet, st.title, 1, 1, 1)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("%s to %s, %s-%s, %d min matches on %d field(s)",
		cfg.StartDate.Time.Format(dateLayout), cfg.EndDate.Time.Format(dateLayout),
		cfg.StartTime, cfg.EndTime, cfg.MatchDuration, cfg.Fields))

	headers := []string{"Proposal", "Key", "ID", "Scheduled", "Unscheduled", "Tightest Rest", "Results", "Rationale"}
	writeHeaders(f, st, sheet, 4, headers)

	for i, p := range proposals {
		row := i + 5
		f.SetCellValue(sheet, cellRef(1, row), p.Label)
		f.SetCellValue(sheet, cellRef(2, row), p.Key)
		f.SetCellValue(sheet, cellRef(3, row), p.ID)
		f.SetCellValue(sheet, cellRef(4, row), len(p.Result.Matches))
		f.SetCellValue(sheet, cellRef(5, row), len(p.Result.Unscheduled))
		if gap := tightestRest(p.Result); gap > 0 {
			f.SetCellValue(sheet, cellRef(6, row), gap)
		}
		if selected != nil && selected.Key == p.Key {
			f.SetCellValue(sheet, cellRef(7, row), "✓")
		}
		f.SetCellValue(sheet, cellRef(8, row), p.Rationale)
		st.apply(f, sheet, st.cell, 1, 3, row)
		st.apply(f, sheet, st.center, 4, 7, row)
		st.apply(f, sheet, st.cell, 8, 8, row)
	}

	widths := map[string]float64{"A": 22, "B": 18, "C": 40, "D": 12, "E": 14, "F": 16, "G": 10, "H": 70}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// tightestRest is the smallest cell gap any team gets between two matches.
func tightestRest(r *schedule.Result) int {
	gap := 0
	for _, m := range r.TeamMetrics {
		if m.MinGap > 0 && (gap == 0 || m.MinGap < gap) {
			gap = m.MinGap
		}
	}
	return gap
}

// writeScheduleSheet lists every calendar cell of a proposal, with the
// fixture bound to it or blank when the cell stays free. Free cells are
// highlighted.
func writeScheduleSheet(f *excelize.File, st *styles, p *schedule.Proposal) error {
	sheet := p.Label
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, st, sheet, 1, scheduleHeaders)

	byCell := make(map[int]strategy.Fixture)
	for _, m := range p.Result.Matches {
		byCell[m.Cell.Index] = m.Fixture
	}

	for i, c := range p.Result.Cells {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), c.Index+1)
		f.SetCellValue(sheet, cellRef(2, row), c.Day.Format(dateLayout))
		f.SetCellValue(sheet, cellRef(3, row), c.Day.Format("Mon"))
		f.SetCellValue(sheet, cellRef(4, row), c.Start.Format(timeLayout)+"-"+c.End.Format(timeLayout))
		f.SetCellValue(sheet, cellRef(5, row), c.Field)
		if fx, ok := byCell[c.Index]; ok {
			f.SetCellValue(sheet, cellRef(6, row), fx.Group)
			f.SetCellValue(sheet, cellRef(7, row), fx.ID)
			f.SetCellValue(sheet, cellRef(8, row), fx.TeamA)
			f.SetCellValue(sheet, cellRef(9, row), fx.TeamB)
		}
		st.apply(f, sheet, st.center, 1, 7, row)
		st.apply(f, sheet, st.cell, 8, 9, row)
	}

	widths := map[string]float64{"A": 8, "B": 16, "C": 8, "D": 16, "E": 8, "F": 8, "G": 12, "H": 28, "I": 28}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	// Free cells get a light red fill.
	lastRow := len(p.Result.Cells) + 1
	if lastRow < 2 {
		return nil
	}
	redFill, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	if err != nil {
		return err
	}
	return f.SetConditionalFormat(sheet, fmt.Sprintf("A2:I%d", lastRow), []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: `LEN($G2)=0`,
			Format:   &redFill,
		},
	})
}

func writeGroupsSheet(f *excelize.File, st *styles, groups []strategy.Group) error {
	sheet := GroupsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for gi, g := range groups {
		col := gi + 1
		f.SetCellValue(sheet, cellRef(col, 1), g.Name())
		st.apply(f, sheet, st.header, col, col, 1)
		for ti, team := range g.Teams {
			f.SetCellValue(sheet, cellRef(col, ti+2), team)
			st.apply(f, sheet, st.cell, col, col, ti+2)
		}
		letter := colLetter(col)
		f.SetColWidth(sheet, letter, letter, 28)
	}
	return nil
}

func writeUnscheduledSheet(f *excelize.File, st *styles, proposals []schedule.Proposal) error {
	sheet := UnscheduledSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, st, sheet, 1, []string{"Proposal", "Group", "Fixture", "Team A", "Team B"})

	row := 2
	for _, p := range proposals {
		for _, fx := range p.Result.Unscheduled {
			f.SetCellValue(sheet, cellRef(1, row), p.Label)
			f.SetCellValue(sheet, cellRef(2, row), fx.Group)
			f.SetCellValue(sheet, cellRef(3, row), fx.ID)
			f.SetCellValue(sheet, cellRef(4, row), fx.TeamA)
			f.SetCellValue(sheet, cellRef(5, row), fx.TeamB)
			st.apply(f, sheet, st.cell, 1, 5, row)
			row++
		}
	}

	widths := map[string]float64{"A": 22, "B": 8, "C": 12, "D": 28, "E": 28}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

// writeResultsSheet lists the proposal's fixtures in calendar order, followed
// by any it could not place, with blank score columns.
func writeResultsSheet(f *excelize.File, st *styles, r *schedule.Result) error {
	sheet := ResultsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, st, sheet, 1, resultHeaders)

	row := 2
	put := func(fx strategy.Fixture, cell *schedule.Cell) {
		f.SetCellValue(sheet, cellRef(1, row), fx.ID)
		f.SetCellValue(sheet, cellRef(2, row), fx.Group)
		if cell != nil {
			f.SetCellValue(sheet, cellRef(resultDateCol, row), cell.Day.Format(dateLayout))
			f.SetCellValue(sheet, cellRef(resultTimeCol, row), cell.Start.Format(timeLayout))
			f.SetCellValue(sheet, cellRef(resultFieldCol, row), cell.Field)
		}
		f.SetCellValue(sheet, cellRef(6, row), fx.TeamA)
		f.SetCellValue(sheet, cellRef(7, row), fx.TeamB)
		st.apply(f, sheet, st.center, 1, 5, row)
		st.apply(f, sheet, st.cell, 6, 7, row)
		st.apply(f, sheet, st.center, 8, 9, row)
		row++
	}

	for _, m := range sortedMatches(r.Matches) {
		put(m.Fixture, &m.Cell)
	}
	for _, fx := range r.Unscheduled {
		put(fx, nil)
	}

	widths := map[string]float64{"A": 12, "B": 8, "C": 16, "D": 10, "E": 8, "F": 28, "G": 28, "H": 10, "I": 10}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func sortedMatches(matches []schedule.Match) []schedule.Match {
	sorted := make([]schedule.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cell.Index < sorted[j].Cell.Index
	})
	return sorted
}

// RecordResult writes a final score into the Results sheet row for
// fixtureID. Scores are in fixture order: scoreA belongs to Team A.
func RecordResult(f *excelize.File, fixtureID string, scoreA, scoreB int) error {
	if scoreA < 0 || scoreB < 0 {
		return fmt.Errorf("scores must not be negative: %d-%d", scoreA, scoreB)
	}

	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ResultsSheet, err)
	}
	for i, row := range rows {
		if i == 0 || col(row, resultFixtureCol) != fixtureID {
			continue
		}
		r := i + 1
		if err := f.SetCellValue(ResultsSheet, cellRef(resultScoreACol, r), scoreA); err != nil {
			return err
		}
		return f.SetCellValue(ResultsSheet, cellRef(resultScoreBCol, r), scoreB)
	}
	return fmt.Errorf("fixture %s not found in %s", fixtureID, ResultsSheet)
}

// col returns the 1-indexed column of a row read with GetRows, which drops
// trailing empty cells.
func col(row []string, c int) string {
	if c-1 < len(row) {
		return row[c-1]
	}
	return ""
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
