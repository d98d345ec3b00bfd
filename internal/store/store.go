// Package store persists schedule templates and matches in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/plsched/internal/template"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schedule_templates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	week_number INTEGER NOT NULL,
	home_team_id INTEGER NOT NULL,
	away_team_id INTEGER NOT NULL,
	match_date TEXT NOT NULL,
	kickoff TEXT NOT NULL,
	field TEXT NOT NULL,
	match_order INTEGER NOT NULL DEFAULT 0,
	week_type TEXT NOT NULL,
	is_special INTEGER NOT NULL DEFAULT 0,
	is_practice INTEGER NOT NULL DEFAULT 0,
	is_playoff INTEGER NOT NULL DEFAULT 0,
	playoff_round INTEGER NOT NULL DEFAULT 0,
	committed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	week_number INTEGER NOT NULL,
	home_team_id INTEGER NOT NULL,
	away_team_id INTEGER NOT NULL,
	match_date TEXT NOT NULL,
	kickoff TEXT NOT NULL,
	field TEXT NOT NULL,
	week_type TEXT NOT NULL,
	is_special INTEGER NOT NULL DEFAULT 0,
	is_playoff INTEGER NOT NULL DEFAULT 0,
	playoff_round INTEGER NOT NULL DEFAULT 0,
	template_id INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (template_id) REFERENCES schedule_templates(id) ON DELETE SET NULL
);
`

const dateFormat = "2006-01-02"

// Store is a SQLite-backed template.Store and template.MatchWriter.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and initializes
// the schema. Use ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite pragmas are per-connection and :memory: databases are
	// per-connection too, so the pool must stay at one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRows stores rows in one transaction and returns their ids.
func (s *Store) InsertRows(rows []template.Row) ([]int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO schedule_templates
		(week_number, home_team_id, away_team_id, match_date, kickoff, field,
		 match_order, week_type, is_special, is_practice, is_playoff, playoff_round, committed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		res, err := stmt.Exec(r.WeekNumber, r.HomeTeamID, r.AwayTeamID,
			r.Date.Format(dateFormat), r.Kickoff, r.Field, r.MatchOrder, r.WeekType,
			boolInt(r.IsSpecial), boolInt(r.IsPractice), boolInt(r.IsPlayoff),
			r.PlayoffRound, boolInt(r.Committed))
		if err != nil {
			return nil, fmt.Errorf("inserting template row: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

const rowColumns = `id, week_number, home_team_id, away_team_id, match_date, kickoff, field,
	match_order, week_type, is_special, is_practice, is_playoff, playoff_round, committed`

// RowsByIDs returns the rows matching ids, in id order. Missing ids
// are silently absent from the result.
func (s *Store) RowsByIDs(ids []int64) ([]template.Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM schedule_templates WHERE id IN (%s) ORDER BY id`,
		rowColumns, placeholders(len(ids)))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryRows(query, args...)
}

// UncommittedRows returns every row not yet committed, in week and
// match order.
func (s *Store) UncommittedRows() ([]template.Row, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_templates WHERE committed = 0
		ORDER BY week_number, id`, rowColumns)
	return s.queryRows(query)
}

func (s *Store) queryRows(query string, args ...interface{}) ([]template.Row, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying template rows: %w", err)
	}
	defer rows.Close()

	var out []template.Row
	for rows.Next() {
		var r template.Row
		var date string
		var special, practice, playoff, committed int
		if err := rows.Scan(&r.ID, &r.WeekNumber, &r.HomeTeamID, &r.AwayTeamID,
			&date, &r.Kickoff, &r.Field, &r.MatchOrder, &r.WeekType,
			&special, &practice, &playoff, &r.PlayoffRound, &committed); err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		r.Date, err = time.Parse(dateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parsing match date %q: %w", date, err)
		}
		r.IsSpecial = special != 0
		r.IsPractice = practice != 0
		r.IsPlayoff = playoff != 0
		r.Committed = committed != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// CommitMatches inserts match records and marks their template rows
// committed in one transaction. A failure leaves neither applied.
func (s *Store) CommitMatches(matches []template.Match, rowIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO matches
		(week_number, home_team_id, away_team_id, match_date, kickoff, field,
		 week_type, is_special, is_playoff, playoff_round, template_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		var templateID interface{}
		if m.TemplateID != 0 {
			templateID = m.TemplateID
		}
		if _, err := stmt.Exec(m.WeekNumber, m.HomeTeamID, m.AwayTeamID,
			m.Date.Format(dateFormat), m.Kickoff, m.Field, m.WeekType,
			boolInt(m.IsSpecial), boolInt(m.IsPlayoff), m.PlayoffRound, templateID); err != nil {
			return fmt.Errorf("inserting match: %w", err)
		}
	}

	if len(rowIDs) > 0 {
		query := fmt.Sprintf(`UPDATE schedule_templates SET committed = 1 WHERE id IN (%s)`,
			placeholders(len(rowIDs)))
		args := make([]interface{}, len(rowIDs))
		for i, id := range rowIDs {
			args[i] = id
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("marking rows committed: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteRows removes rows by id.
func (s *Store) DeleteRows(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM schedule_templates WHERE id IN (%s)`,
		placeholders(len(ids)))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.Exec(query, args...)
	return err
}

// DeleteUncommitted removes every uncommitted row and reports how many.
func (s *Store) DeleteUncommitted() (int, error) {
	res, err := s.db.Exec(`DELETE FROM schedule_templates WHERE committed = 0`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// MatchCount reports the number of match records.
func (s *Store) MatchCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&n)
	return n, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
