// Package assign maps a week's matches onto kickoff times and fields.
//
// Kickoffs are fixed per division: Premier mornings run four slots from
// 08:20, Classic afternoons run two slots from 13:10. All divisions share
// the North and South fields.
package assign

import (
	"github.com/example/plsched/internal/pairing"
)

// Assignment is one match placed at a kickoff on a field. Order is the
// home team's match number within the day (1 or 2).
type Assignment struct {
	Home    int
	Away    int
	Kickoff string
	Field   string
	Order   int
}

// Fixed division kickoff layouts.
var (
	PremierKickoffs = []string{"08:20", "09:30", "10:40", "11:50"}
	ClassicKickoffs = []string{"13:10", "14:20"}
)

// The two physical fields.
var Fields = []string{"North", "South"}

// Balancer accumulates per-team window and field history across the
// weeks of one generation run. It backs the advisory balance checks
// (field split and early/late split) and the best-effort rebalancing
// pass; it never blocks an assignment.
type Balancer struct {
	early      map[int]int
	late       map[int]int
	fieldCount map[int]map[string]int
}

// NewBalancer returns an empty accumulator for one run.
func NewBalancer() *Balancer {
	return &Balancer{
		early:      make(map[int]int),
		late:       make(map[int]int),
		fieldCount: make(map[int]map[string]int),
	}
}

// EarlyCount returns how many weeks the team has played in the early
// window so far.
func (b *Balancer) EarlyCount(team int) int { return b.early[team] }

// LateCount returns how many weeks the team has played in the late
// window so far.
func (b *Balancer) LateCount(team int) int { return b.late[team] }

// FieldCount returns how many matches the team has played on the field.
func (b *Balancer) FieldCount(team int, field string) int {
	return b.fieldCount[team][field]
}

func (b *Balancer) addField(team int, field string) {
	if b.fieldCount[team] == nil {
		b.fieldCount[team] = make(map[string]int)
	}
	b.fieldCount[team][field]++
}

// Assign places a week's matches into kickoff slots and fields.
//
// Two shapes get the division layouts: 8 matches over 4 kickoffs and
// 4 matches over 2 kickoffs, both two matches per slot with one match on
// each field. Any other shape falls back to the same two-per-slot,
// alternating-field fill. Matches arrive in slot order from the pairing
// tables, so consecutive pairs of matches share a kickoff.
func Assign(matches []pairing.MatchSlot, kickoffs []string, bal *Balancer) []Assignment {
	if len(kickoffs) == 0 || len(matches) == 0 {
		return nil
	}

	if len(matches) == 2*len(kickoffs) {
		return assignLayout(matches, kickoffs, bal)
	}
	return assignFallback(matches, kickoffs, bal)
}

// assignLayout is the exact division layout: matches 2i and 2i+1 go to
// kickoff i, North then South.
func assignLayout(matches []pairing.MatchSlot, kickoffs []string, bal *Balancer) []Assignment {
	// Premier weeks keep both of a team's matches in one window; if the
	// teams in the early half are ahead on early-window history, play
	// the halves in the other order. One swap per week, best effort.
	if len(kickoffs) == 4 && shouldFlipWindows(matches, bal) {
		flipped := make([]pairing.MatchSlot, 0, len(matches))
		flipped = append(flipped, matches[len(matches)/2:]...)
		flipped = append(flipped, matches[:len(matches)/2]...)
		matches = flipped
	}

	out := make([]Assignment, 0, len(matches))
	dayCount := make(map[int]int)
	for i, m := range matches {
		dayCount[m.Home]++
		dayCount[m.Away]++
		a := Assignment{
			Home:    m.Home,
			Away:    m.Away,
			Kickoff: kickoffs[i/2],
			Field:   Fields[i%2],
			Order:   dayCount[m.Home],
		}
		bal.addField(m.Home, a.Field)
		bal.addField(m.Away, a.Field)
		if len(kickoffs) == 4 {
			window := bal.late
			if i < len(matches)/2 {
				window = bal.early
			}
			// Count each team once per week, on its first match.
			if dayCount[m.Home] == 1 {
				window[m.Home]++
			}
			if dayCount[m.Away] == 1 {
				window[m.Away]++
			}
		}
		out = append(out, a)
	}
	return out
}

// shouldFlipWindows compares cumulative early-window history between the
// teams currently slated early and those slated late.
func shouldFlipWindows(matches []pairing.MatchSlot, bal *Balancer) bool {
	half := len(matches) / 2
	earlySkew, lateSkew := 0, 0
	seen := make(map[int]bool)
	for i, m := range matches {
		for _, team := range []int{m.Home, m.Away} {
			if seen[team] {
				continue
			}
			seen[team] = true
			skew := bal.early[team] - bal.late[team]
			if i < half {
				earlySkew += skew
			} else {
				lateSkew += skew
			}
		}
	}
	return earlySkew > lateSkew
}

// assignFallback handles irregular shapes: two matches per kickoff,
// alternating field by index, wrapping kickoffs if the week overruns.
func assignFallback(matches []pairing.MatchSlot, kickoffs []string, bal *Balancer) []Assignment {
	out := make([]Assignment, 0, len(matches))
	dayCount := make(map[int]int)
	for i, m := range matches {
		dayCount[m.Home]++
		dayCount[m.Away]++
		a := Assignment{
			Home:    m.Home,
			Away:    m.Away,
			Kickoff: kickoffs[(i/2)%len(kickoffs)],
			Field:   Fields[i%len(Fields)],
			Order:   dayCount[m.Home],
		}
		bal.addField(m.Home, a.Field)
		bal.addField(m.Away, a.Field)
		out = append(out, a)
	}
	return out
}
