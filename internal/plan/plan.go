// Package plan turns a season's week descriptors into schedule
// template rows.
package plan

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/plsched/internal/assign"
	"github.com/example/plsched/internal/config"
	"github.com/example/plsched/internal/pairing"
	"github.com/example/plsched/internal/roster"
	"github.com/example/plsched/internal/template"
	"github.com/example/plsched/internal/validator"
)

// ErrMissingWeekDate is returned when a week descriptor that produces
// rows carries no date.
var ErrMissingWeekDate = errors.New("week has no date")

// practiceMatchLimit caps how many real fixtures a practice week keeps
// from its pairing week.
const practiceMatchLimit = 2

// Result is a fully built season plan.
type Result struct {
	Rows     []template.Row
	Report   *validator.Report
	Warnings []string
}

// Builder generates template rows for one division.
type Builder struct {
	divType  config.DivisionType
	resolver *roster.Resolver
	gen      *pairing.Generator
	log      *zap.SugaredLogger
}

func NewBuilder(divType config.DivisionType, resolver *roster.Resolver, log *zap.SugaredLogger) *Builder {
	return &Builder{
		divType:  divType,
		resolver: resolver,
		gen:      pairing.NewGenerator(log),
		log:      log,
	}
}

func (b *Builder) kickoffs() []string {
	if b.divType == config.DivisionPremier {
		return assign.PremierKickoffs
	}
	return assign.ClassicKickoffs
}

// consumesPairing reports whether a week type draws a week from the
// round-robin pairing sequence.
func (b *Builder) consumesPairing(weekType string) bool {
	switch weekType {
	case config.WeekRegular:
		return true
	case config.WeekPractice:
		return b.divType != config.DivisionPremier
	case config.WeekMixed:
		// Premier mixed weeks run playoffs instead of fixtures.
		return b.divType == config.DivisionClassic
	}
	return false
}

// Build generates rows for the given weeks, validates the season and
// returns the plan. Hard constraint violations are reported, not
// fatal; a missing date or an unbuildable pairing sequence is.
func (b *Builder) Build(weeks []config.WeekDescriptor) (*Result, error) {
	teamIDs := b.resolver.TeamIDs()

	pairingWeeks := 0
	for _, w := range weeks {
		if b.consumesPairing(w.Type) {
			pairingWeeks++
		}
	}

	check := func(week []pairing.MatchSlot, lastOpponents map[int]map[int]bool) bool {
		return validator.ValidateWeek(week, teamIDs, lastOpponents)
	}
	pairings, err := b.gen.Generate(teamIDs, pairingWeeks, check)
	if err != nil {
		return nil, fmt.Errorf("generating pairings for %d weeks: %w", pairingWeeks, err)
	}

	res := &Result{}
	bal := assign.NewBalancer()
	next := 0
	assignWeeks := 0
	takePairing := func() []pairing.MatchSlot {
		week := pairings[next]
		next++
		return week
	}

	for _, w := range weeks {
		if w.Date.IsZero() {
			return nil, fmt.Errorf("week %d (%s): %w", w.Number, w.Type, ErrMissingWeekDate)
		}

		switch w.Type {
		case config.WeekRegular:
			if w.Practice && b.divType != config.DivisionPremier {
				b.appendPracticeRows(res, w, takePairing())
				continue
			}
			b.appendFixtureRows(res, w, takePairing(), bal)
			assignWeeks++
		case config.WeekMixed:
			switch b.divType {
			case config.DivisionPremier:
				b.appendPlayoffRows(res, w)
			case config.DivisionClassic:
				b.appendFixtureRows(res, w, takePairing(), bal)
				assignWeeks++
			default:
				b.skipWeek(res, w, "mixed week not supported for this division")
			}
		case config.WeekPractice:
			if b.divType == config.DivisionPremier {
				b.skipWeek(res, w, "practice week not supported for premier")
				continue
			}
			b.appendPracticeRows(res, w, takePairing())
		case config.WeekPlayoff:
			b.appendPlayoffRows(res, w)
		case config.WeekFun, config.WeekTst, config.WeekBye, config.WeekBonus:
			b.appendSpecialRows(res, w)
		default:
			b.skipWeek(res, w, "unknown week type")
		}
	}

	report := validator.ValidateSeason(pairings, teamIDs)
	validator.CheckBalance(report, teamIDs, bal, assignWeeks)
	res.Report = report
	return res, nil
}

func (b *Builder) skipWeek(res *Result, w config.WeekDescriptor, reason string) {
	b.log.Warnw("skipping week", "week", w.Number, "type", w.Type, "reason", reason)
	res.Warnings = append(res.Warnings, fmt.Sprintf("week %d (%s): %s", w.Number, w.Type, reason))
}

func (b *Builder) appendFixtureRows(res *Result, w config.WeekDescriptor, matches []pairing.MatchSlot, bal *assign.Balancer) {
	for _, a := range assign.Assign(matches, b.kickoffs(), bal) {
		res.Rows = append(res.Rows, template.Row{
			WeekNumber: w.Number,
			HomeTeamID: a.Home,
			AwayTeamID: a.Away,
			Date:       w.Date.Time,
			Kickoff:    a.Kickoff,
			Field:      a.Field,
			MatchOrder: a.Order,
			WeekType:   w.Type,
		})
	}
}

// appendPracticeRows keeps up to two real fixtures from the pairing
// week at the second kickoff and fills the first kickoff with
// practice placeholders.
func (b *Builder) appendPracticeRows(res *Result, w config.WeekDescriptor, matches []pairing.MatchSlot) {
	teams := b.resolver.Teams()
	kickoffs := b.kickoffs()
	dayCount := make(map[int]int)
	for i := 0; i < 2 && i < len(teams); i++ {
		dayCount[teams[i].ID]++
		res.Rows = append(res.Rows, template.Row{
			WeekNumber: w.Number,
			HomeTeamID: teams[i].ID,
			AwayTeamID: teams[i].ID,
			Date:       w.Date.Time,
			Kickoff:    kickoffs[0],
			Field:      assign.Fields[i%len(assign.Fields)],
			MatchOrder: dayCount[teams[i].ID],
			WeekType:   w.Type,
			IsPractice: true,
		})
	}
	// The real matches kept from the pairing week count as regular
	// fixtures, not practice events.
	if len(matches) > practiceMatchLimit {
		matches = matches[:practiceMatchLimit]
	}
	for i, m := range matches {
		dayCount[m.Home]++
		dayCount[m.Away]++
		res.Rows = append(res.Rows, template.Row{
			WeekNumber: w.Number,
			HomeTeamID: m.Home,
			AwayTeamID: m.Away,
			Date:       w.Date.Time,
			Kickoff:    kickoffs[len(kickoffs)-1],
			Field:      assign.Fields[i%len(assign.Fields)],
			MatchOrder: dayCount[m.Home],
			WeekType:   config.WeekRegular,
		})
	}
}

// appendPlayoffRows emits one bracket slot per real team. Opponents
// are seeded after the regular season ends, so both sides carry the
// same team id until then.
func (b *Builder) appendPlayoffRows(res *Result, w config.WeekDescriptor) {
	round := w.PlayoffRound
	if round == 0 {
		round = 1
		b.log.Debugw("playoff round not set, defaulting", "week", w.Number, "type", w.Type, "round", round)
	}
	kickoffs := b.kickoffs()
	for i, t := range b.resolver.Teams() {
		res.Rows = append(res.Rows, template.Row{
			WeekNumber:   w.Number,
			HomeTeamID:   t.ID,
			AwayTeamID:   t.ID,
			Date:         w.Date.Time,
			Kickoff:      kickoffs[(i/len(assign.Fields))%len(kickoffs)],
			Field:        assign.Fields[i%len(assign.Fields)],
			MatchOrder:   1,
			WeekType:     w.Type,
			IsSpecial:    true,
			IsPlayoff:    true,
			PlayoffRound: round,
		})
	}
}

func (b *Builder) appendSpecialRows(res *Result, w config.WeekDescriptor) {
	kickoffs := b.kickoffs()
	for i, t := range b.resolver.Teams() {
		res.Rows = append(res.Rows, template.Row{
			WeekNumber: w.Number,
			HomeTeamID: t.ID,
			AwayTeamID: t.ID,
			Date:       w.Date.Time,
			Kickoff:    kickoffs[(i/len(assign.Fields))%len(kickoffs)],
			Field:      assign.Fields[i%len(assign.Fields)],
			MatchOrder: 1,
			WeekType:   w.Type,
			IsSpecial:  true,
		})
	}
}
