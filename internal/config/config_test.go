package config

import (
	"testing"
	"time"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

const testConfigYAML = `
season:
  start_date: "2026-09-05"

division:
  name: Premier
  type: PREMIER
  teams:
    - {id: 101, name: Maple FC}
    - {id: 102, name: Harbor United}
    - {id: 103, name: Ridgeline SC}
    - {id: 104, name: North End Rovers}
    - {id: 105, name: Cascade Athletic}
    - {id: 106, name: Pioneer FC}
    - {id: 107, name: Emerald City SC}
    - {id: 108, name: Rainier Rangers}
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("season", func(t *testing.T) {
		if cfg.Season.StartDate.Time != mustDate("2026-09-05") {
			t.Errorf("start date = %v, want 2026-09-05", cfg.Season.StartDate.Time)
		}
	})

	t.Run("division", func(t *testing.T) {
		if cfg.Division.Name != "Premier" {
			t.Errorf("division name = %q, want %q", cfg.Division.Name, "Premier")
		}
		if cfg.DivisionType() != DivisionPremier {
			t.Errorf("division type = %q, want %q", cfg.DivisionType(), DivisionPremier)
		}
		if len(cfg.Division.Teams) != 8 {
			t.Fatalf("teams = %d, want 8", len(cfg.Division.Teams))
		}
		if cfg.Division.Teams[0].ID != 101 || cfg.Division.Teams[0].Name != "Maple FC" {
			t.Errorf("first team = %d %q, want 101 %q", cfg.Division.Teams[0].ID, cfg.Division.Teams[0].Name, "Maple FC")
		}
	})
}

func TestSeasonWeeks(t *testing.T) {
	t.Run("premier defaults", func(t *testing.T) {
		cfg, err := LoadFromBytes([]byte(testConfigYAML))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		weeks := cfg.SeasonWeeks()
		if len(weeks) != 12 {
			t.Fatalf("weeks = %d, want 12", len(weeks))
		}
		wantTypes := []string{
			WeekRegular, WeekRegular, WeekRegular, WeekRegular,
			WeekRegular, WeekRegular, WeekRegular,
			WeekFun, WeekTst, WeekPlayoff, WeekPlayoff, WeekBonus,
		}
		for i, w := range weeks {
			if w.Type != wantTypes[i] {
				t.Errorf("week %d type = %q, want %q", i+1, w.Type, wantTypes[i])
			}
			if w.Number != i+1 {
				t.Errorf("week %d number = %d", i+1, w.Number)
			}
			want := mustDate("2026-09-05").AddDate(0, 0, 7*i)
			if w.Date.Time != want {
				t.Errorf("week %d date = %v, want %v", i+1, w.Date.Time, want)
			}
		}
		if weeks[9].PlayoffRound != 1 || weeks[10].PlayoffRound != 2 {
			t.Errorf("playoff rounds = %d, %d, want 1, 2", weeks[9].PlayoffRound, weeks[10].PlayoffRound)
		}
	})

	t.Run("classic defaults with practice", func(t *testing.T) {
		weeks := DefaultSeason(DivisionClassic, mustDate("2026-09-05"), 2)
		if len(weeks) != 11 {
			t.Fatalf("weeks = %d, want 11", len(weeks))
		}
		if weeks[0].Type != WeekPractice || weeks[1].Type != WeekPractice {
			t.Errorf("weeks 1-2 = %q, %q, want practice", weeks[0].Type, weeks[1].Type)
		}
		if weeks[10].Type != WeekPlayoff || weeks[10].PlayoffRound != 1 {
			t.Errorf("last week = %q round %d, want playoff round 1", weeks[10].Type, weeks[10].PlayoffRound)
		}
	})

	t.Run("ecs fc defaults", func(t *testing.T) {
		weeks := DefaultSeason(DivisionEcsFC, mustDate("2026-09-05"), 0)
		if len(weeks) != 9 {
			t.Fatalf("weeks = %d, want 9", len(weeks))
		}
		for i := 0; i < 8; i++ {
			if weeks[i].Type != WeekRegular {
				t.Errorf("week %d type = %q, want regular", i+1, weeks[i].Type)
			}
		}
	})

	t.Run("explicit weeks win", func(t *testing.T) {
		yaml := testConfigYAML + `
weeks:
  - {number: 1, date: "2026-09-05", type: REGULAR, practice: true}
  - {number: 2, date: "2026-09-12", type: FUN}
`
		cfg, err := LoadFromBytes([]byte(yaml))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		weeks := cfg.SeasonWeeks()
		if len(weeks) != 2 {
			t.Fatalf("weeks = %d, want 2", len(weeks))
		}
		if !weeks[0].Practice {
			t.Error("week 1 should carry the practice flag")
		}
		if weeks[1].Type != WeekFun {
			t.Errorf("week 2 type = %q, want FUN", weeks[1].Type)
		}
	})
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("unknown division type", func(t *testing.T) {
		yaml := `
season:
  start_date: "2026-09-05"
division:
  name: A
  type: SUPER
  teams:
    - {id: 1, name: T1}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for unknown division type")
		}
	})

	t.Run("no teams", func(t *testing.T) {
		yaml := `
season:
  start_date: "2026-09-05"
division:
  name: A
  type: CLASSIC
  teams: []
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for empty team list")
		}
	})

	t.Run("duplicate team id", func(t *testing.T) {
		yaml := `
season:
  start_date: "2026-09-05"
division:
  name: A
  type: CLASSIC
  teams:
    - {id: 1, name: T1}
    - {id: 1, name: T2}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for duplicate team id")
		}
	})

	t.Run("missing start date without weeks", func(t *testing.T) {
		yaml := `
division:
  name: A
  type: CLASSIC
  teams:
    - {id: 1, name: T1}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for missing start date")
		}
	})

	t.Run("duplicate week number", func(t *testing.T) {
		yaml := `
division:
  name: A
  type: CLASSIC
  teams:
    - {id: 1, name: T1}
weeks:
  - {number: 1, date: "2026-09-05", type: REGULAR}
  - {number: 1, date: "2026-09-12", type: REGULAR}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for duplicate week number")
		}
	})

	t.Run("practice flag on a non-regular week", func(t *testing.T) {
		yaml := `
division:
  name: A
  type: CLASSIC
  teams:
    - {id: 1, name: T1}
weeks:
  - {number: 1, date: "2026-09-05", type: FUN, practice: true}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for practice flag outside a regular week")
		}
	})

	t.Run("too many practice weeks", func(t *testing.T) {
		yaml := `
season:
  start_date: "2026-09-05"
  practice_weeks: 3
division:
  name: A
  type: CLASSIC
  teams:
    - {id: 1, name: T1}
`
		_, err := LoadFromBytes([]byte(yaml))
		if err == nil {
			t.Error("expected error for practice_weeks > 2")
		}
	})
}
