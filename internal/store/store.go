// Package store persists the decision engine's tick-by-tick audit trail in
// SQLite. None of this feeds back into BestDecision: it is purely an
// operational record of what the engine selected and when.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS tick_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	tick_id         TEXT NOT NULL,
	raised_events   TEXT NOT NULL,
	winning_name    TEXT,
	tier            INTEGER,
	score           REAL,
	outcome         TEXT NOT NULL,
	duration_micros INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_history (
	name           TEXT PRIMARY KEY,
	last_executed  TEXT NOT NULL,
	execute_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	tick_id        TEXT NOT NULL,
	raised_events  TEXT,
	trigger_type   TEXT NOT NULL,
	snapshot_json  TEXT,
	winning_name   TEXT,
	outcome        TEXT NOT NULL,
	reason         TEXT,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rule_edges (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	event_name  TEXT NOT NULL,
	decision_name TEXT NOT NULL,
	weight      REAL NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	UNIQUE(event_name, decision_name)
);

CREATE TABLE IF NOT EXISTS activation_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tick_id       TEXT NOT NULL,
	entries_json  TEXT NOT NULL,
	winning_name  TEXT,
	winning_tier  INTEGER,
	winning_score REAL,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store

// Store manages the tick audit trail in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. graph,
// activationlog, which share the same database file).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region record-tick

// RecordTick appends a tick to the audit trail and, if a Decision was
// executed, bumps its row in decision_history.
func (s *Store) RecordTick(rec TickRecord) error {
	if rec.TickID == "" {
		rec.TickID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	eventsJSON, err := json.Marshal(rec.RaisedEvents)
	if err != nil {
		return fmt.Errorf("marshal raised events: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO tick_log (tick_id, raised_events, winning_name, tier, score, outcome, duration_micros, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TickID, string(eventsJSON), nullIfEmpty(rec.WinningName), rec.Tier, rec.Score,
		rec.Outcome, rec.DurationMicros, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}

	if rec.WinningName != "" && rec.Outcome == "executed" {
		_, err = tx.Exec(
			`INSERT INTO decision_history (name, last_executed, execute_count) VALUES (?, ?, 1)
			 ON CONFLICT(name) DO UPDATE SET last_executed = excluded.last_executed, execute_count = execute_count + 1`,
			rec.WinningName, rec.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("update decision history: %w", err)
		}
	}

	return tx.Commit()
}

// #endregion record-tick

// #region queries

// ListTicks returns the most recent tick records, most recent first.
func (s *Store) ListTicks(limit int) ([]TickRecord, error) {
	rows, err := s.db.Query(
		`SELECT tick_id, raised_events, winning_name, tier, score, outcome, duration_micros, created_at
		 FROM tick_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ticks: %w", err)
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var rec TickRecord
		var eventsJSON string
		var winningName sql.NullString
		var tier sql.NullInt64
		var score sql.NullFloat64
		var createdAt string

		if err := rows.Scan(&rec.TickID, &eventsJSON, &winningName, &tier, &score, &rec.Outcome, &rec.DurationMicros, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		_ = json.Unmarshal([]byte(eventsJSON), &rec.RaisedEvents)
		rec.WinningName = winningName.String
		rec.Tier = int(tier.Int64)
		rec.Score = score.Float64
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetTick returns the tick_log row for a single tick ID.
func (s *Store) GetTick(tickID string) (TickRecord, error) {
	rec := TickRecord{TickID: tickID}
	var eventsJSON string
	var winningName sql.NullString
	var tier sql.NullInt64
	var score sql.NullFloat64
	var createdAt string

	err := s.db.QueryRow(
		`SELECT raised_events, winning_name, tier, score, outcome, duration_micros, created_at
		 FROM tick_log WHERE tick_id = ?`, tickID,
	).Scan(&eventsJSON, &winningName, &tier, &score, &rec.Outcome, &rec.DurationMicros, &createdAt)
	if err != nil {
		return TickRecord{}, fmt.Errorf("get tick %s: %w", tickID, err)
	}
	_ = json.Unmarshal([]byte(eventsJSON), &rec.RaisedEvents)
	rec.WinningName = winningName.String
	rec.Tier = int(tier.Int64)
	rec.Score = score.Float64
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return rec, nil
}

// DecisionHistory returns the persisted last-executed row for a Decision
// name, or the zero row if it has never executed.
func (s *Store) DecisionHistory(name string) (DecisionHistoryRow, error) {
	row := DecisionHistoryRow{Name: name}
	var lastExecuted string
	err := s.db.QueryRow(
		`SELECT last_executed, execute_count FROM decision_history WHERE name = ?`, name,
	).Scan(&lastExecuted, &row.ExecuteCount)
	if err == sql.ErrNoRows {
		return row, nil
	}
	if err != nil {
		return row, fmt.Errorf("decision history %s: %w", name, err)
	}
	row.LastExecuted, _ = time.Parse(time.RFC3339Nano, lastExecuted)
	return row, nil
}

// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
