// Package template models schedule template rows and their lifecycle
// from preview through commit.
package template

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/plsched/internal/roster"
)

// Row is one line of a generated schedule template. Placeholder rows
// carry the same team on both sides.
type Row struct {
	ID           int64
	WeekNumber   int
	HomeTeamID   int
	AwayTeamID   int
	Date         time.Time
	Kickoff      string
	Field        string
	MatchOrder   int
	WeekType     string
	IsSpecial    bool
	IsPractice   bool
	IsPlayoff    bool
	PlayoffRound int
	Committed    bool
}

// Placeholder reports whether the row marks a week event rather than a
// real fixture.
func (r Row) Placeholder() bool {
	return r.HomeTeamID == r.AwayTeamID
}

// Match is a committed fixture record.
type Match struct {
	WeekNumber   int
	HomeTeamID   int
	AwayTeamID   int
	Date         time.Time
	Kickoff      string
	Field        string
	WeekType     string
	IsSpecial    bool
	IsPlayoff    bool
	PlayoffRound int
	TemplateID   int64
}

// Store persists template rows.
type Store interface {
	InsertRows(rows []Row) ([]int64, error)
	RowsByIDs(ids []int64) ([]Row, error)
	UncommittedRows() ([]Row, error)
	DeleteRows(ids []int64) error
	DeleteUncommitted() (int, error)
}

// MatchWriter records committed fixtures and marks their template rows
// committed in a single atomic step.
type MatchWriter interface {
	CommitMatches(matches []Match, rowIDs []int64) error
}

// Lifecycle drives template rows through preview, persistence and
// commit against a Store.
type Lifecycle struct {
	store    Store
	matches  MatchWriter
	resolver *roster.Resolver
	log      *zap.SugaredLogger
}

func NewLifecycle(store Store, matches MatchWriter, resolver *roster.Resolver, log *zap.SugaredLogger) *Lifecycle {
	return &Lifecycle{store: store, matches: matches, resolver: resolver, log: log}
}

// Preview renders rows grouped by week for terminal display. Nothing
// is persisted.
func (l *Lifecycle) Preview(rows []Row) string {
	byWeek := make(map[int][]Row)
	var weekNums []int
	for _, r := range rows {
		if _, ok := byWeek[r.WeekNumber]; !ok {
			weekNums = append(weekNums, r.WeekNumber)
		}
		byWeek[r.WeekNumber] = append(byWeek[r.WeekNumber], r)
	}
	sort.Ints(weekNums)

	var b strings.Builder
	for _, num := range weekNums {
		week := byWeek[num]
		fmt.Fprintf(&b, "Week %d (%s) [%s]\n", num, week[0].Date.Format("2006-01-02"), week[0].WeekType)
		for _, r := range week {
			if r.Placeholder() {
				fmt.Fprintf(&b, "  %-5s %-5s %s\n", r.Kickoff, r.Field, l.teamName(r.HomeTeamID))
				continue
			}
			fmt.Fprintf(&b, "  %-5s %-5s %s vs %s\n", r.Kickoff, r.Field,
				l.teamName(r.HomeTeamID), l.teamName(r.AwayTeamID))
		}
	}
	return b.String()
}

func (l *Lifecycle) teamName(id int) string {
	if t, ok := l.resolver.Lookup(id); ok {
		return t.Name
	}
	return fmt.Sprintf("team %d", id)
}

// Persist stores rows uncommitted and returns their row IDs.
func (l *Lifecycle) Persist(rows []Row) ([]int64, error) {
	ids, err := l.store.InsertRows(rows)
	if err != nil {
		return nil, fmt.Errorf("persisting template rows: %w", err)
	}
	l.log.Infow("template rows persisted", "rows", len(ids))
	return ids, nil
}

// Commit turns stored rows into match records and marks them
// committed. A nil id list commits every uncommitted row. Rows already
// committed are skipped. Match creation and the committed flag move
// together: a failure leaves no match records and no rows marked.
func (l *Lifecycle) Commit(ids []int64) (committed, skipped int, err error) {
	var rows []Row
	if ids == nil {
		rows, err = l.store.UncommittedRows()
	} else {
		rows, err = l.store.RowsByIDs(ids)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("loading template rows: %w", err)
	}

	var pending []Row
	for _, r := range rows {
		if r.Committed {
			skipped++
			continue
		}
		pending = append(pending, r)
	}

	if len(pending) > 0 {
		matches := make([]Match, len(pending))
		rowIDs := make([]int64, len(pending))
		for i, r := range pending {
			matches[i] = Match{
				WeekNumber:   r.WeekNumber,
				HomeTeamID:   r.HomeTeamID,
				AwayTeamID:   r.AwayTeamID,
				Date:         r.Date,
				Kickoff:      r.Kickoff,
				Field:        r.Field,
				WeekType:     r.WeekType,
				IsSpecial:    r.IsSpecial,
				IsPlayoff:    r.IsPlayoff,
				PlayoffRound: r.PlayoffRound,
				TemplateID:   r.ID,
			}
			rowIDs[i] = r.ID
		}
		if err := l.matches.CommitMatches(matches, rowIDs); err != nil {
			return 0, skipped, fmt.Errorf("committing template rows: %w", err)
		}
	}
	l.log.Infow("template rows committed", "committed", len(pending), "skipped", skipped)
	return len(pending), skipped, nil
}

// Delete removes stored rows by id, refusing committed ones. A nil id
// list deletes every uncommitted row.
func (l *Lifecycle) Delete(ids []int64) (int, error) {
	if ids == nil {
		n, err := l.store.DeleteUncommitted()
		if err != nil {
			return 0, fmt.Errorf("deleting template rows: %w", err)
		}
		return n, nil
	}

	rows, err := l.store.RowsByIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("loading template rows: %w", err)
	}
	for _, r := range rows {
		if r.Committed {
			return 0, fmt.Errorf("template row %d is committed and cannot be deleted", r.ID)
		}
	}
	if err := l.store.DeleteRows(ids); err != nil {
		return 0, fmt.Errorf("deleting template rows: %w", err)
	}
	return len(rows), nil
}
