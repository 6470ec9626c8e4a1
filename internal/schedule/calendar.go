package schedule

import (
	"time"

	"github.com/derekprior/cupplan/internal/config"
)

// Cell is a bookable (day, slot, field) unit of the tournament calendar.
// Index is the cell's position in the calendar sequence.
type Cell struct {
	Index int
	Day   time.Time
	Slot  int
	Field int
	Start time.Time
	End   time.Time
}

// BuildCalendar expands the configuration into bookable cells ordered by
// day, then slot, then field. An empty result means the daily window cannot
// fit a single match.
func BuildCalendar(cfg *config.Config) []Cell {
	return BuildStaggeredCalendar(cfg, 0)
}

// BuildStaggeredCalendar is BuildCalendar with the first slot of each day
// pushed back by stagger minutes. The end of the window does not move, so
// slots that no longer fit are dropped.
func BuildStaggeredCalendar(cfg *config.Config, stagger int) []Cell {
	start := cfg.StartTime.Minutes + stagger
	duration := cfg.MatchDuration
	if duration <= 0 {
		return nil
	}

	slotsPerDay := (cfg.EndTime.Minutes - start) / duration
	if slotsPerDay <= 0 {
		return nil
	}

	var cells []Cell
	for _, day := range cfg.Days() {
		for slot := 0; slot < slotsPerDay; slot++ {
			begin := day.Add(time.Duration(start+slot*duration) * time.Minute)
			for field := 1; field <= cfg.Fields; field++ {
				cells = append(cells, Cell{
					Index: len(cells),
					Day:   day,
					Slot:  slot,
					Field: field,
					Start: begin,
					End:   begin.Add(time.Duration(duration) * time.Minute),
				})
			}
		}
	}

	return cells
}

// SlotsPerDay reports how many full matches fit in the daily window.
func SlotsPerDay(cfg *config.Config) int {
	if cfg.MatchDuration <= 0 {
		return 0
	}
	return max(cfg.Window()/cfg.MatchDuration, 0)
}
