package schedule

import (
	"testing"
	"time"

	"github.com/derekprior/cupplan/internal/config"
)

func date(y, m, d int) config.Date {
	return config.Date{Time: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)}
}

func clock(h, m int) config.Clock {
	return config.Clock{Minutes: h*60 + m}
}

func testConfig() *config.Config {
	return &config.Config{
		Name:          "Summer Cup",
		Surface:       config.Grass,
		Model:         config.LeagueKnockout,
		StartDate:     date(2026, 7, 11), // Saturday
		EndDate:       date(2026, 7, 12), // Sunday
		StartTime:     clock(9, 0),
		EndTime:       clock(19, 0),
		MatchDuration: 90,
		Fields:        2,
	}
}

func TestBuildCalendar(t *testing.T) {
	cfg := testConfig()
	cells := BuildCalendar(cfg)

	t.Run("cell count", func(t *testing.T) {
		// 2 days x floor(600/90)=6 slots x 2 fields
		if len(cells) != 24 {
			t.Errorf("cells = %d, want 24", len(cells))
		}
	})

	t.Run("day, slot, field ordering", func(t *testing.T) {
		for i := 1; i < len(cells); i++ {
			a, b := cells[i-1], cells[i]
			if b.Index != i {
				t.Errorf("cell %d has index %d", i, b.Index)
			}
			if b.Day.Before(a.Day) {
				t.Fatalf("cell %d goes back a day", i)
			}
			if b.Day.Equal(a.Day) {
				if b.Slot < a.Slot || (b.Slot == a.Slot && b.Field != a.Field+1) {
					t.Errorf("cell %d out of order: %+v after %+v", i, b, a)
				}
			}
		}
		if cells[0].Field != 1 || cells[1].Field != 2 || cells[2].Slot != 1 {
			t.Errorf("first cells = %+v %+v %+v", cells[0], cells[1], cells[2])
		}
	})

	t.Run("start and end times", func(t *testing.T) {
		want := time.Date(2026, 7, 11, 10, 30, 0, 0, time.UTC)
		if !cells[2].Start.Equal(want) {
			t.Errorf("cell 2 start = %v, want %v", cells[2].Start, want)
		}
		last := cells[len(cells)-1]
		wantEnd := time.Date(2026, 7, 12, 18, 0, 0, 0, time.UTC)
		if !last.End.Equal(wantEnd) {
			t.Errorf("last end = %v, want %v (partial trailing slot dropped)", last.End, wantEnd)
		}
	})
}

func TestBuildCalendarLength(t *testing.T) {
	tests := []struct {
		name       string
		start, end config.Clock
		duration   int
		fields     int
		days       int
	}{
		{"exact fit", clock(9, 0), clock(13, 0), 60, 1, 1},
		{"truncated", clock(9, 0), clock(13, 30), 60, 3, 2},
		{"one slot", clock(9, 0), clock(10, 0), 60, 4, 3},
		{"long window", clock(8, 15), clock(21, 45), 45, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.StartTime, cfg.EndTime = tt.start, tt.end
			cfg.MatchDuration = tt.duration
			cfg.Fields = tt.fields
			cfg.EndDate = config.Date{Time: cfg.StartDate.Time.AddDate(0, 0, tt.days-1)}

			want := tt.days * ((tt.end.Minutes - tt.start.Minutes) / tt.duration) * tt.fields
			if got := len(BuildCalendar(cfg)); got != want {
				t.Errorf("cells = %d, want %d", got, want)
			}
		})
	}
}

func TestBuildCalendarTooShort(t *testing.T) {
	cfg := testConfig()
	cfg.EndTime = clock(10, 0) // 60 minutes < 90

	if cells := BuildCalendar(cfg); len(cells) != 0 {
		t.Errorf("cells = %d, want 0", len(cells))
	}
	if got := SlotsPerDay(cfg); got != 0 {
		t.Errorf("SlotsPerDay = %d, want 0", got)
	}
}

func TestBuildStaggeredCalendar(t *testing.T) {
	cfg := testConfig()
	cfg.MatchDuration = 60

	t.Run("shifts first slot", func(t *testing.T) {
		cells := BuildStaggeredCalendar(cfg, 50)
		want := time.Date(2026, 7, 11, 9, 50, 0, 0, time.UTC)
		if !cells[0].Start.Equal(want) {
			t.Errorf("first start = %v, want %v", cells[0].Start, want)
		}
		// (600-50)/60 = 9 slots x 2 fields x 2 days
		if len(cells) != 36 {
			t.Errorf("cells = %d, want 36", len(cells))
		}
	})

	t.Run("stagger beyond window", func(t *testing.T) {
		if cells := BuildStaggeredCalendar(cfg, 600); len(cells) != 0 {
			t.Errorf("cells = %d, want 0", len(cells))
		}
	})
}
