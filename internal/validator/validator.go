// Package validator checks generated seasons against the league's
// scheduling constraints.
//
// The weekly check (game count, no immediate rematch) feeds the pairing
// generator's retry loop. The season check recomputes everything over the
// finished schedule and produces a report; it never fails generation.
// Violations split into hard constraints (double round-robin, games per
// week, no immediate rematch, home/away balance) and advisory ones (field
// balance, early/late window balance), which are reported but not
// guaranteed by the generator.
package validator

import (
	"fmt"

	"github.com/example/plsched/internal/assign"
	"github.com/example/plsched/internal/pairing"
)

// Severity classifies a violation.
type Severity string

const (
	SeverityHard     Severity = "hard"
	SeverityAdvisory Severity = "advisory"
)

// Violation is one failed constraint, described for an operator.
type Violation struct {
	Constraint string // C1..C6
	Severity   Severity
	Message    string
}

// Report is the season-level validation result. A report with advisory
// violations only is still committable; hard violations mean the season
// should be regenerated.
type Report struct {
	Violations      []Violation
	TotalMatches    int
	ExpectedMatches int
}

// Satisfied reports whether the season passed every hard constraint.
func (r *Report) Satisfied() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityHard {
			return false
		}
	}
	return true
}

// Hard returns the hard violations.
func (r *Report) Hard() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityHard {
			out = append(out, v)
		}
	}
	return out
}

// Advisory returns the advisory violations.
func (r *Report) Advisory() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityAdvisory {
			out = append(out, v)
		}
	}
	return out
}

func (r *Report) add(constraint string, sev Severity, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Constraint: constraint,
		Severity:   sev,
		Message:    fmt.Sprintf(format, args...),
	})
}

// ValidateWeek checks a single generated week: every team plays exactly
// two matches (C2) and no match repeats a pairing from the previous week
// (C3). The window half of C2 is structural in the pairing tables and is
// covered by the assignment checks instead.
func ValidateWeek(week []pairing.MatchSlot, teamIDs []int, lastOpponents map[int]map[int]bool) bool {
	games := make(map[int]int)
	for _, m := range week {
		games[m.Home]++
		games[m.Away]++
		if lastOpponents[m.Home][m.Away] {
			return false
		}
	}
	for _, id := range teamIDs {
		if games[id] != 2 {
			return false
		}
	}
	return len(games) == len(teamIDs)
}

// ValidateSeason recomputes C1 through C4 over a finished season and
// returns the report. Pair-count expectations depend on the division
// shape: an 8-team, 7-week season expects every pair exactly twice; a
// 4-team season expects two meetings per pair per full 3-week rotation
// cycle. Partial seasons skip the pair and home/away checks, which only
// balance over the full rotation.
func ValidateSeason(weeks [][]pairing.MatchSlot, teamIDs []int) *Report {
	r := &Report{ExpectedMatches: len(teamIDs) * len(weeks)}

	pairCount := make(map[pairing.PairKey]int)
	home := make(map[int]int)
	away := make(map[int]int)

	for weekNum, week := range weeks {
		games := make(map[int]int)
		for _, m := range week {
			r.TotalMatches++
			games[m.Home]++
			games[m.Away]++
			pairCount[pairing.NewPairKey(m.Home, m.Away)]++
			home[m.Home]++
			away[m.Away]++
		}
		for _, id := range teamIDs {
			if games[id] != 2 {
				r.add("C2", SeverityHard, "team %d plays %d matches in week %d (want 2)", id, games[id], weekNum+1)
			}
		}
	}

	checkRematches(r, weeks)
	checkPairCounts(r, pairCount, teamIDs, len(weeks))

	// Home/away balance needs the full rotation, like the pair-count
	// check: the fixed tables cannot split a partial season evenly.
	fullSeason := false
	switch len(teamIDs) {
	case 8:
		fullSeason = len(weeks) == 7
	case 4:
		fullSeason = len(weeks) > 0 && len(weeks)%3 == 0
	}
	if fullSeason {
		for _, id := range teamIDs {
			if home[id] != len(weeks) || away[id] != len(weeks) {
				r.add("C4", SeverityHard, "team %d has %d home / %d away matches (want %d/%d)",
					id, home[id], away[id], len(weeks), len(weeks))
			}
		}
	}

	return r
}

// checkRematches flags any pairing repeated in consecutive weeks (C3).
// With 4 teams every week shares pairs with its neighbors by pigeonhole,
// so the check only applies to 8-team seasons.
func checkRematches(r *Report, weeks [][]pairing.MatchSlot) {
	if len(weeks) == 0 || len(weeks[0]) != 8 {
		return
	}
	for w := 1; w < len(weeks); w++ {
		prev := make(map[pairing.PairKey]bool)
		for _, m := range weeks[w-1] {
			prev[pairing.NewPairKey(m.Home, m.Away)] = true
		}
		for _, m := range weeks[w] {
			k := pairing.NewPairKey(m.Home, m.Away)
			if prev[k] {
				r.add("C3", SeverityHard, "teams %d and %d meet in weeks %d and %d back to back", k.A, k.B, w, w+1)
			}
		}
	}
}

func checkPairCounts(r *Report, pairCount map[pairing.PairKey]int, teamIDs []int, weeks int) {
	var expected int
	switch len(teamIDs) {
	case 8:
		if weeks != 7 {
			return
		}
		expected = 2
	case 4:
		if weeks%3 != 0 {
			return
		}
		expected = 2 * weeks / 3
	default:
		return
	}

	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			k := pairing.NewPairKey(teamIDs[i], teamIDs[j])
			if pairCount[k] != expected {
				r.add("C1", SeverityHard, "teams %d and %d meet %d times (want %d)", k.A, k.B, pairCount[k], expected)
			}
		}
	}
}

// CheckBalance appends the advisory field and window checks to a season
// report using the balancer's accumulated history. Field counts should
// come out even (C5) and each team's early-window weeks should sit at
// floor or ceil of half the season (C6). Both are best-effort goals of
// the assigner, so misses are advisory.
func CheckBalance(r *Report, teamIDs []int, bal *assign.Balancer, weeks int) {
	for _, id := range teamIDs {
		north := bal.FieldCount(id, "North")
		south := bal.FieldCount(id, "South")
		if north != weeks || south != weeks {
			r.add("C5", SeverityAdvisory, "team %d has %d North / %d South assignments (want %d/%d)",
				id, north, south, weeks, weeks)
		}
	}

	lo, hi := weeks/2, (weeks+1)/2
	for _, id := range teamIDs {
		early := bal.EarlyCount(id)
		late := bal.LateCount(id)
		if early+late == 0 {
			continue // classic divisions have no window split
		}
		if early < lo || early > hi {
			r.add("C6", SeverityAdvisory, "team %d plays %d early / %d late weeks (want %d-%d early)",
				id, early, late, lo, hi)
		}
	}
}
