// Package pairing generates the per-week match pairings for a division.
//
// Only 4-team and 8-team divisions are supported: the 4-team schedule
// cycles a fixed 3-week rotation and the 8-team schedule reads a fixed
// 7-week double round-robin table. Both are embedded as verified
// constants rather than derived at runtime.
package pairing

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// MatchSlot is a single pairing produced by the generator. Home and Away
// are team IDs; a slot with Home == Away is a special-event placeholder,
// not a real match.
type MatchSlot struct {
	Home int
	Away int
}

// PairKey identifies an unordered team pair. A is always the smaller ID.
type PairKey struct {
	A, B int
}

// NewPairKey normalizes two team IDs into a PairKey.
func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{a, b}
}

var (
	// ErrInvalidTeamCount is returned when the division is not exactly
	// 4 or 8 teams.
	ErrInvalidTeamCount = errors.New("team count must be 4 or 8")

	// ErrInvalidWeekNumber is returned when an 8-team week index falls
	// outside the fixed table.
	ErrInvalidWeekNumber = errors.New("premier week number must be in [0,6]")
)

// Counters is the running state threaded through a single generation run.
// It is owned by one Generate call; nothing is shared across runs.
type Counters struct {
	HomePlayed    map[int]int
	AwayPlayed    map[int]int
	PairMeetings  map[PairKey]int
	LastOpponents map[int]map[int]bool
}

// NewCounters returns an empty accumulator for one generation run.
func NewCounters() *Counters {
	return &Counters{
		HomePlayed:    make(map[int]int),
		AwayPlayed:    make(map[int]int),
		PairMeetings:  make(map[PairKey]int),
		LastOpponents: make(map[int]map[int]bool),
	}
}

// record folds one accepted week into the accumulators and replaces the
// previous-week opponents map.
func (c *Counters) record(week []MatchSlot) {
	last := make(map[int]map[int]bool)
	for _, m := range week {
		c.HomePlayed[m.Home]++
		c.AwayPlayed[m.Away]++
		c.PairMeetings[NewPairKey(m.Home, m.Away)]++
		if last[m.Home] == nil {
			last[m.Home] = make(map[int]bool)
		}
		if last[m.Away] == nil {
			last[m.Away] = make(map[int]bool)
		}
		last[m.Home][m.Away] = true
		last[m.Away][m.Home] = true
	}
	c.LastOpponents = last
}

// WeekCheck reports whether a candidate week satisfies the weekly
// constraints given the previous week's opponents. The validator package
// supplies the real implementation; a nil check disables the retry loop.
type WeekCheck func(week []MatchSlot, lastOpponents map[int]map[int]bool) bool

// Generator produces full-season pairings.
type Generator struct {
	log *zap.SugaredLogger
}

// NewGenerator returns a Generator logging through log.
func NewGenerator(log *zap.SugaredLogger) *Generator {
	return &Generator{log: log}
}

// Generate builds weeksCount weeks of pairings for the given team IDs.
// IDs are sorted ascending before table positions are assigned, so the
// output is deterministic for a given roster.
//
// The generator is best-effort: weekly constraint failures trigger an
// alternate-rotation retry (each candidate re-checked), and if every
// rotation fails the original week is kept and the failure logged. The
// caller is expected to run season validation before committing.
func (g *Generator) Generate(teamIDs []int, weeksCount int, check WeekCheck) ([][]MatchSlot, error) {
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	sort.Ints(ids)

	switch len(ids) {
	case classicDivisionSize:
		return g.generateClassic(ids, weeksCount), nil
	case premierDivisionSize:
		return g.generatePremier(ids, weeksCount, check)
	default:
		return nil, fmt.Errorf("%w: got %d teams", ErrInvalidTeamCount, len(ids))
	}
}

// generateClassic cycles the 3-week base rotation. When weeksCount is not
// a multiple of 3 the trailing partial cycle leaves pair counts uneven;
// that is a known gap, logged rather than papered over.
func (g *Generator) generateClassic(ids []int, weeksCount int) [][]MatchSlot {
	if weeksCount%classicCycleLen != 0 {
		g.log.Warnw("classic season is not a whole number of rotation cycles; trailing weeks will be pair-imbalanced",
			"weeks", weeksCount)
	}

	weeks := make([][]MatchSlot, 0, weeksCount)
	for w := 0; w < weeksCount; w++ {
		base := classicBase[w%classicCycleLen]
		week := make([]MatchSlot, len(base))
		for i, p := range base {
			week[i] = MatchSlot{Home: ids[p.home], Away: ids[p.away]}
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func (g *Generator) generatePremier(ids []int, weeksCount int, check WeekCheck) ([][]MatchSlot, error) {
	if weeksCount > premierWeekCount {
		return nil, fmt.Errorf("%w: season has %d weeks", ErrInvalidWeekNumber, weeksCount)
	}

	counters := NewCounters()
	weeks := make([][]MatchSlot, 0, weeksCount)

	for w := 0; w < weeksCount; w++ {
		week, err := premierWeek(ids, w)
		if err != nil {
			return nil, err
		}

		if check != nil && !check(week, counters.LastOpponents) {
			week = g.retryPremierWeek(ids, w, week, counters, check)
		}

		counters.record(week)
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// retryPremierWeek substitutes alternate roster rotations until one
// passes the weekly check. Every candidate is re-validated; a blind
// substitution defeats the point of checking at all. If no rotation
// passes, the original week is returned and the exhaustion logged so it
// surfaces in the season report instead of being silently accepted.
func (g *Generator) retryPremierWeek(ids []int, weekNum int, original []MatchSlot, counters *Counters, check WeekCheck) []MatchSlot {
	for rot := 1; rot <= premierRotationRetries; rot++ {
		rotated := make([]int, 0, len(ids))
		rotated = append(rotated, ids[rot:]...)
		rotated = append(rotated, ids[:rot]...)

		week, err := premierWeek(rotated, weekNum)
		if err != nil {
			continue
		}
		if check(week, counters.LastOpponents) {
			g.log.Infow("weekly constraints failed; alternate rotation accepted",
				"week", weekNum, "rotation", rot)
			return week
		}
	}

	g.log.Warnw("weekly constraints failed and no alternate rotation passed; keeping original week",
		"week", weekNum)
	return original
}

// premierWeek reads one week out of the fixed table using ids as the
// position-to-team mapping.
func premierWeek(ids []int, weekNum int) ([]MatchSlot, error) {
	if weekNum < 0 || weekNum >= premierWeekCount {
		return nil, fmt.Errorf("%w: got week %d", ErrInvalidWeekNumber, weekNum)
	}

	row := premierTable[weekNum]
	week := make([]MatchSlot, len(row))
	for i, p := range row {
		week[i] = MatchSlot{Home: ids[p.home], Away: ids[p.away]}
	}
	return week, nil
}
