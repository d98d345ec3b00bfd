package validator

import (
	"testing"

	"github.com/example/plsched/internal/assign"
	"github.com/example/plsched/internal/logging"
	"github.com/example/plsched/internal/pairing"
)

func premierIDs() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8}
}

func premierSeason(t *testing.T, weeks int) [][]pairing.MatchSlot {
	t.Helper()
	season, err := pairing.NewGenerator(logging.NewNop()).Generate(premierIDs(), weeks, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return season
}

func TestValidateWeek(t *testing.T) {
	week := []pairing.MatchSlot{
		{Home: 1, Away: 2}, {Home: 3, Away: 4}, {Home: 1, Away: 3}, {Home: 2, Away: 4},
		{Home: 5, Away: 6}, {Home: 7, Away: 8}, {Home: 5, Away: 7}, {Home: 6, Away: 8},
	}

	t.Run("valid week", func(t *testing.T) {
		if !ValidateWeek(week, premierIDs(), nil) {
			t.Error("valid week rejected")
		}
	})

	t.Run("wrong match count per team", func(t *testing.T) {
		bad := make([]pairing.MatchSlot, len(week))
		copy(bad, week)
		bad[7] = pairing.MatchSlot{Home: 5, Away: 8} // 5 plays 3 times, 6 once
		if ValidateWeek(bad, premierIDs(), nil) {
			t.Error("week with uneven per-team match counts accepted")
		}
	})

	t.Run("immediate rematch", func(t *testing.T) {
		last := map[int]map[int]bool{
			1: {2: true},
			2: {1: true},
		}
		if ValidateWeek(week, premierIDs(), last) {
			t.Error("week repeating last week's pairing accepted")
		}
	})
}

func TestValidateSeasonPremier(t *testing.T) {
	t.Run("clean season", func(t *testing.T) {
		report := ValidateSeason(premierSeason(t, 7), premierIDs())
		if !report.Satisfied() {
			t.Errorf("hard violations on a clean season: %v", report.Hard())
		}
		if report.TotalMatches != 56 || report.ExpectedMatches != 56 {
			t.Errorf("matches = %d/%d, want 56/56", report.TotalMatches, report.ExpectedMatches)
		}
	})

	t.Run("duplicated week", func(t *testing.T) {
		season := premierSeason(t, 7)
		season[1] = season[0]

		report := ValidateSeason(season, premierIDs())
		if report.Satisfied() {
			t.Fatal("tampered season passed validation")
		}
		byConstraint := make(map[string]int)
		for _, v := range report.Hard() {
			byConstraint[v.Constraint]++
		}
		if byConstraint["C1"] == 0 {
			t.Error("expected pair-count violations")
		}
		if byConstraint["C3"] == 0 {
			t.Error("expected immediate-rematch violations")
		}
	})

	t.Run("partial season skips home balance", func(t *testing.T) {
		report := ValidateSeason(premierSeason(t, 3), premierIDs())
		for _, v := range report.Hard() {
			if v.Constraint == "C4" || v.Constraint == "C1" {
				t.Errorf("partial season should not be held to full-rotation balance: %v", v)
			}
		}
		if !report.Satisfied() {
			t.Errorf("hard violations on a valid short season: %v", report.Hard())
		}
	})

	t.Run("swapped orientation breaks home balance", func(t *testing.T) {
		season := premierSeason(t, 7)
		m := season[0][0]
		season[0][0] = pairing.MatchSlot{Home: m.Away, Away: m.Home}

		report := ValidateSeason(season, premierIDs())
		found := false
		for _, v := range report.Hard() {
			if v.Constraint == "C4" {
				found = true
			}
		}
		if !found {
			t.Error("expected home/away balance violations")
		}
	})
}

func TestValidateSeasonClassic(t *testing.T) {
	ids := []int{1, 2, 3, 4}
	gen := pairing.NewGenerator(logging.NewNop())

	t.Run("full cycles", func(t *testing.T) {
		season, err := gen.Generate(ids, 6, nil)
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		report := ValidateSeason(season, ids)
		if !report.Satisfied() {
			t.Errorf("hard violations on full cycles: %v", report.Hard())
		}
	})

	t.Run("partial cycle skips pair counts", func(t *testing.T) {
		season, err := gen.Generate(ids, 8, nil)
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		report := ValidateSeason(season, ids)
		for _, v := range report.Hard() {
			if v.Constraint == "C1" || v.Constraint == "C4" {
				t.Errorf("partial cycle should not be held to full-cycle balance: %v", v)
			}
		}
	})
}

func TestCheckBalance(t *testing.T) {
	t.Run("balanced season has no advisories", func(t *testing.T) {
		season := premierSeason(t, 7)
		bal := assign.NewBalancer()
		for _, week := range season {
			assign.Assign(week, assign.PremierKickoffs, bal)
		}

		report := &Report{}
		CheckBalance(report, premierIDs(), bal, 7)
		if adv := report.Advisory(); len(adv) != 0 {
			t.Errorf("advisory violations on a balanced season: %v", adv)
		}
	})

	t.Run("single week is field-skewed", func(t *testing.T) {
		season := premierSeason(t, 1)
		bal := assign.NewBalancer()
		assign.Assign(season[0], assign.PremierKickoffs, bal)

		report := &Report{}
		CheckBalance(report, premierIDs(), bal, 1)
		found := false
		for _, v := range report.Advisory() {
			if v.Constraint == "C5" {
				found = true
			}
		}
		if !found {
			t.Error("expected field-balance advisories after one week")
		}
		if !report.Satisfied() {
			t.Error("advisory violations must not fail the report")
		}
	})

	t.Run("classic teams skip window check", func(t *testing.T) {
		ids := []int{1, 2, 3, 4}
		season, err := pairing.NewGenerator(logging.NewNop()).Generate(ids, 6, nil)
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		bal := assign.NewBalancer()
		for _, week := range season {
			assign.Assign(week, assign.ClassicKickoffs, bal)
		}

		report := &Report{}
		CheckBalance(report, ids, bal, 6)
		for _, v := range report.Advisory() {
			if v.Constraint == "C6" {
				t.Errorf("classic teams have no window split to check: %v", v)
			}
		}
	})
}
