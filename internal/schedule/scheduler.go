package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/derekprior/cupplan/internal/strategy"
)

// Match pairs a fixture with the calendar cell it was bound to.
type Match struct {
	Fixture strategy.Fixture
	Cell    Cell
}

// TeamMetrics holds per-team schedule statistics.
type TeamMetrics struct {
	Matches int
	// MinGap is the smallest distance, in calendar cells, between two of the
	// team's consecutive matches. Zero when the team plays fewer than twice.
	MinGap int
}

// Result is the output of one assignment pass. Fixtures that found no cell
// are listed in Unscheduled rather than reported as an error.
type Result struct {
	Cells       []Cell
	Matches     []Match
	Unscheduled []strategy.Fixture
	Rejections  map[string]int
	TeamMetrics map[string]*TeamMetrics
}

// Complete reports whether every fixture was placed.
func (r *Result) Complete() bool {
	return len(r.Unscheduled) == 0
}

// Warnings describes each unscheduled fixture.
func (r *Result) Warnings() []string {
	var warnings []string
	for _, f := range r.Unscheduled {
		warnings = append(warnings, fmt.Sprintf("Group %s: %s vs %s could not be placed", f.Group, f.TeamA, f.TeamB))
	}
	return warnings
}

// rejectionReason categorizes why a fixture was skipped for a cell.
type rejectionReason int

const (
	rejectNoRest rejectionReason = iota
	rejectSameSlot
)

func (r rejectionReason) String() string {
	switch r {
	case rejectNoRest:
		return "no rest"
	case rejectSameSlot:
		return "same slot"
	default:
		return "unknown"
	}
}

// neverPlayed is the last-cell sentinel for a team with no match yet; it is
// far enough back that the rest check passes at cell 0.
const neverPlayed = -2

// Option adjusts an assignment pass.
type Option func(*scheduler)

// ExclusiveSlots also rejects a fixture when one of its teams is already
// playing another field in the same (day, slot).
func ExclusiveSlots() Option {
	return func(s *scheduler) { s.exclusive = true }
}

// Assign binds fixtures to cells in a single greedy pass. Cells are walked in
// order; each takes the first pending fixture whose teams did not play in the
// previous cell. Cells with no eligible fixture stay empty. offset rotates the
// fixture scan order and never changes the rest rules. The same inputs always
// give the same Result.
//
// With several fields the adjacency rule alone can put a team on two fields
// at once; SlotClashes reports those, and ExclusiveSlots prevents them.
func Assign(fixtures []strategy.Fixture, cells []Cell, offset int, opts ...Option) *Result {
	s := newScheduler(rotate(fixtures, offset), cells)
	for _, opt := range opts {
		opt(s)
	}
	s.run()
	return &Result{
		Cells:       cells,
		Matches:     s.matches,
		Unscheduled: s.pending,
		Rejections:  s.rejectionCounts(),
		TeamMetrics: Metrics(s.matches),
	}
}

type scheduler struct {
	cells   []Cell
	pending []strategy.Fixture

	matches  []Match
	lastCell map[string]int // team -> index of its last cell
	busy     map[teamSlot]bool

	exclusive bool

	rejections map[rejectionReason]int
}

type teamSlot struct {
	team string
	day  time.Time
	slot int
}

func newScheduler(fixtures []strategy.Fixture, cells []Cell) *scheduler {
	return &scheduler{
		cells:      cells,
		pending:    fixtures,
		lastCell:   make(map[string]int),
		busy:       make(map[teamSlot]bool),
		rejections: make(map[rejectionReason]int),
	}
}

func (s *scheduler) run() {
	for i, cell := range s.cells {
		if len(s.pending) == 0 {
			return
		}
		for p, f := range s.pending {
			if reason, ok := s.restCheck(f, i, cell); !ok {
				s.rejections[reason]++
				continue
			}
			s.assign(f, i, cell)
			s.pending = append(s.pending[:p:p], s.pending[p+1:]...)
			break
		}
	}
}

func (s *scheduler) restCheck(f strategy.Fixture, pos int, cell Cell) (rejectionReason, bool) {
	for _, team := range f.Teams() {
		last, ok := s.lastCell[team]
		if !ok {
			last = neverPlayed
		}
		if pos-last <= 1 {
			return rejectNoRest, false
		}
	}

	if !s.exclusive {
		return 0, true
	}
	for _, team := range f.Teams() {
		if s.busy[teamSlot{team, cell.Day, cell.Slot}] {
			return rejectSameSlot, false
		}
	}

	return 0, true
}

func (s *scheduler) assign(f strategy.Fixture, pos int, cell Cell) {
	s.matches = append(s.matches, Match{Fixture: f, Cell: cell})
	for _, team := range f.Teams() {
		s.lastCell[team] = pos
		s.busy[teamSlot{team, cell.Day, cell.Slot}] = true
	}
}

func (s *scheduler) rejectionCounts() map[string]int {
	counts := make(map[string]int, len(s.rejections))
	for r, n := range s.rejections {
		counts[r.String()] = n
	}
	return counts
}

// rotate returns a copy of fixtures starting at offset (mod len).
func rotate(fixtures []strategy.Fixture, offset int) []strategy.Fixture {
	out := make([]strategy.Fixture, 0, len(fixtures))
	if len(fixtures) == 0 {
		return out
	}
	k := offset % len(fixtures)
	if k < 0 {
		k += len(fixtures)
	}
	out = append(out, fixtures[k:]...)
	return append(out, fixtures[:k]...)
}

// Metrics computes per-team statistics from a list of matches.
func Metrics(matches []Match) map[string]*TeamMetrics {
	metrics := make(map[string]*TeamMetrics)
	last := make(map[string]int)
	for _, m := range sortedByCell(matches) {
		for _, team := range m.Fixture.Teams() {
			tm, ok := metrics[team]
			if !ok {
				tm = &TeamMetrics{}
				metrics[team] = tm
			}
			if tm.Matches > 0 {
				gap := m.Cell.Index - last[team]
				if tm.MinGap == 0 || gap < tm.MinGap {
					tm.MinGap = gap
				}
			}
			tm.Matches++
			last[team] = m.Cell.Index
		}
	}
	return metrics
}

// RestViolations lists every pair of a team's consecutive matches that sit in
// adjacent calendar cells.
func RestViolations(matches []Match) []string {
	var violations []string
	last := make(map[string]Match)
	for _, m := range sortedByCell(matches) {
		for _, team := range m.Fixture.Teams() {
			if prev, ok := last[team]; ok && m.Cell.Index-prev.Cell.Index <= 1 {
				violations = append(violations, fmt.Sprintf("%s plays %s and %s back to back (%s)",
					team, prev.Fixture.ID, m.Fixture.ID, m.Cell.Start.Format("01/02 15:04")))
			}
			last[team] = m
		}
	}
	return violations
}

// SlotClashes lists every team booked on two fields in the same (day, slot).
func SlotClashes(matches []Match) []string {
	var clashes []string
	first := make(map[teamSlot]Match)
	for _, m := range sortedByCell(matches) {
		for _, team := range m.Fixture.Teams() {
			key := teamSlot{team, m.Cell.Day, m.Cell.Slot}
			if prev, ok := first[key]; ok {
				clashes = append(clashes, fmt.Sprintf("%s plays %s and %s at the same time (%s)",
					team, prev.Fixture.ID, m.Fixture.ID, m.Cell.Start.Format("01/02 15:04")))
				continue
			}
			first[key] = m
		}
	}
	return clashes
}

func sortedByCell(matches []Match) []Match {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cell.Index < sorted[j].Cell.Index
	})
	return sorted
}
