package config

import (
	"fmt"
	"os"
	"time"

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

func (d Date) MarshalYAML() (interface{}, error) {
	return d.Time.Format("2006-01-02"), nil
}

// IsZero reports whether the date was left unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// DivisionType selects the pairing model and season shape for a division.
type DivisionType string

const (
	DivisionPremier DivisionType = "PREMIER"
	DivisionClassic DivisionType = "CLASSIC"
	DivisionEcsFC   DivisionType = "ECS_FC"
)

// ParseDivisionType maps a config string to a DivisionType.
func ParseDivisionType(s string) (DivisionType, error) {
	switch DivisionType(s) {
	case DivisionPremier, DivisionClassic, DivisionEcsFC:
		return DivisionType(s), nil
	}
	return "", fmt.Errorf("unknown division type %q", s)
}

// Week types recognized by the plan builder. Anything else is skipped
// with a warning.
const (
	WeekRegular  = "REGULAR"
	WeekMixed    = "MIXED"
	WeekPractice = "PRACTICE"
	WeekPlayoff  = "PLAYOFF"
	WeekFun      = "FUN"
	WeekTst      = "TST"
	WeekBye      = "BYE"
	WeekBonus    = "BONUS"
)

type Team struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// WeekDescriptor is one calendar week of the season. A REGULAR week may
// set Practice to open the day with practice slots instead of a full
// fixture list; only non-premier divisions honor it.
type WeekDescriptor struct {
	Number       int    `yaml:"number"`
	Date         Date   `yaml:"date"`
	Type         string `yaml:"type"`
	Practice     bool   `yaml:"practice"`
	PlayoffRound int    `yaml:"playoff_round"`
}

type Season struct {
	StartDate     Date `yaml:"start_date"`
	PracticeWeeks int  `yaml:"practice_weeks"`
}

type Division struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Teams []Team `yaml:"teams"`
}

type Config struct {
	Season   Season           `yaml:"season"`
	Division Division         `yaml:"division"`
	Weeks    []WeekDescriptor `yaml:"weeks"`
}

// DivisionType returns the parsed division type. Call after validate.
func (c *Config) DivisionType() DivisionType {
	t, _ := ParseDivisionType(c.Division.Type)
	return t
}

// SeasonWeeks returns the week descriptors to build. An explicit weeks:
// list wins; otherwise the default season shape for the division type is
// synthesized on a 7-day cadence from the season start date.
func (c *Config) SeasonWeeks() []WeekDescriptor {
	if len(c.Weeks) > 0 {
		return c.Weeks
	}
	return DefaultSeason(c.DivisionType(), c.Season.StartDate.Time, c.Season.PracticeWeeks)
}

// DefaultSeason builds the standard week sequence for a division type
// starting on start. Premier seasons run seven regular weeks, a fun
// week, a TST week, two playoff rounds and a bonus week. Classic and
// ECS FC seasons run eight regular weeks and a single playoff week;
// Classic optionally opens with practice weeks.
func DefaultSeason(dt DivisionType, start time.Time, practiceWeeks int) []WeekDescriptor {
	var weeks []WeekDescriptor
	num := 1
	add := func(typ string, round int) {
		weeks = append(weeks, WeekDescriptor{
			Number:       num,
			Date:         Date{Time: start.AddDate(0, 0, 7*(num-1))},
			Type:         typ,
			PlayoffRound: round,
		})
		num++
	}

	switch dt {
	case DivisionPremier:
		for i := 0; i < 7; i++ {
			add(WeekRegular, 0)
		}
		add(WeekFun, 0)
		add(WeekTst, 0)
		add(WeekPlayoff, 1)
		add(WeekPlayoff, 2)
		add(WeekBonus, 0)
	case DivisionClassic:
		for i := 0; i < practiceWeeks; i++ {
			add(WeekPractice, 0)
		}
		for i := 0; i < 8; i++ {
			add(WeekRegular, 0)
		}
		add(WeekPlayoff, 1)
	case DivisionEcsFC:
		for i := 0; i < 8; i++ {
			add(WeekRegular, 0)
		}
		add(WeekPlayoff, 1)
	}
	return weeks
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
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

func (c *Config) validate() error {
	if _, err := ParseDivisionType(c.Division.Type); err != nil {
		return fmt.Errorf("division %q: %w", c.Division.Name, err)
	}

	if len(c.Division.Teams) == 0 {
		return fmt.Errorf("division %q has no teams", c.Division.Name)
	}

	// Check for duplicate team IDs and names
	seenID := make(map[int]string)
	seenName := make(map[string]bool)
	for _, t := range c.Division.Teams {
		if prev, ok := seenID[t.ID]; ok {
			return fmt.Errorf("team id %d used by both %q and %q", t.ID, prev, t.Name)
		}
		seenID[t.ID] = t.Name
		if seenName[t.Name] {
			return fmt.Errorf("duplicate team name %q", t.Name)
		}
		seenName[t.Name] = true
	}

	if len(c.Weeks) == 0 && c.Season.StartDate.IsZero() {
		return fmt.Errorf("season start_date is required when no explicit weeks are given")
	}

	// Validate explicit week descriptors
	seenNum := make(map[int]bool)
	for _, w := range c.Weeks {
		if w.Number <= 0 {
			return fmt.Errorf("week number %d must be positive", w.Number)
		}
		if seenNum[w.Number] {
			return fmt.Errorf("duplicate week number %d", w.Number)
		}
		seenNum[w.Number] = true
		if w.Type == "" {
			return fmt.Errorf("week %d has no type", w.Number)
		}
		if w.Practice && w.Type != WeekRegular {
			return fmt.Errorf("week %d: the practice flag applies to %s weeks only", w.Number, WeekRegular)
		}
	}

	if c.Season.PracticeWeeks < 0 || c.Season.PracticeWeeks > 2 {
		return fmt.Errorf("practice_weeks must be between 0 and 2, got %d", c.Season.PracticeWeeks)
	}

	return nil
}
