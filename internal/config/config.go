package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// Clock is a time of day stored as minutes after midnight.
type Clock struct {
	Minutes int
}

func (c *Clock) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("15:04", value.Value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value.Value, err)
	}
	c.Minutes = t.Hour()*60 + t.Minute()
	return nil
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return FormatMinutes(c.Minutes)
}

// FormatMinutes renders minutes after midnight as "HH:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

type Surface string

const (
	Grass Surface = "grass"
	Beach Surface = "beach"
)

// RecommendedDuration is the default match length in minutes for a surface.
func (s Surface) RecommendedDuration() int {
	if s == Beach {
		return 60
	}
	return 90
}

type Model string

const (
	LeagueKnockout Model = "league_knockout"
	LeagueOnly     Model = "league_only"
	KnockoutOnly   Model = "knockout_only"
)

type Config struct {
	Name          string   `yaml:"name"`
	Venue         string   `yaml:"venue"`
	Surface       Surface  `yaml:"surface" validate:"required,oneof=grass beach"`
	Model         Model    `yaml:"model" validate:"required,oneof=league_knockout league_only knockout_only"`
	StartDate     Date     `yaml:"start_date"`
	EndDate       Date     `yaml:"end_date"`
	StartTime     Clock    `yaml:"start_time"`
	EndTime       Clock    `yaml:"end_time"`
	MatchDuration int      `yaml:"match_duration" validate:"gt=0"`
	Fields        int      `yaml:"fields" validate:"gte=1"`
	TeamCount     int      `yaml:"team_count" validate:"gte=0"`
	Groups        int      `yaml:"groups" validate:"gte=0"`
	Teams         []string `yaml:"teams"`

	// ExclusiveSlots keeps a team off a second field in the same slot.
	ExclusiveSlots bool `yaml:"exclusive_slots"`
}

// Days returns every calendar date from StartDate to EndDate inclusive.
func (c *Config) Days() []time.Time {
	var days []time.Time
	d := c.StartDate.Time
	for !d.After(c.EndDate.Time) {
		days = append(days, d)
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// Window is the length of the daily playing window in minutes.
func (c *Config) Window() int {
	return c.EndTime.Minutes - c.StartTime.Minutes
}

var validate = validator.New()

// LoadFromBytes parses YAML bytes into a Config, applies defaults and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Surface == "" {
		c.Surface = Grass
	}
	if c.Model == "" {
		c.Model = LeagueKnockout
	}
	if c.MatchDuration == 0 {
		c.MatchDuration = c.Surface.RecommendedDuration()
	}
	if c.TeamCount == 0 {
		for _, t := range c.Teams {
			if strings.TrimSpace(t) != "" {
				c.TeamCount++
			}
		}
	}
}

// Validate checks field constraints and the cross-field invariants of the
// tournament record.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q constraint (value %v)", yamlName(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validating config: %w", err)
	}

	if c.StartDate.Time.IsZero() || c.EndDate.Time.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if c.EndDate.Time.Before(c.StartDate.Time) {
		return fmt.Errorf("end date %s must not be before start date %s",
			c.EndDate.Time.Format("2006-01-02"),
			c.StartDate.Time.Format("2006-01-02"))
	}

	if c.StartTime.Minutes >= c.EndTime.Minutes {
		return fmt.Errorf("start time %s must be before end time %s", c.StartTime, c.EndTime)
	}

	if c.TeamCount > 0 && len(c.Teams) > c.TeamCount {
		return fmt.Errorf("%d teams listed but team_count is %d", len(c.Teams), c.TeamCount)
	}

	return nil
}

func yamlName(field string) string {
	switch field {
	case "MatchDuration":
		return "match_duration"
	case "TeamCount":
		return "team_count"
	default:
		return strings.ToLower(field)
	}
}
