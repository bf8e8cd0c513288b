package activationlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// #region types

// Entry is one candidate's recorded score for a tick, or -1 if skipped by
// tier pruning.
type Entry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Snapshot is a completed tick's full candidate list plus the winner, ready
// to persist or replay.
type Snapshot struct {
	TickID       string
	Entries      []Entry
	WinningName  string
	WinningTier  int
	WinningScore float64
	CreatedAt    time.Time
}

// #endregion types

// #region store

// Store persists activation log snapshots in the shared SQLite database
// (see store.Store.DB).
type Store struct {
	db *sql.DB
}

// NewStore wraps an already-migrated *sql.DB.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save persists one tick's snapshot.
func (s *Store) Save(snap Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	entriesJSON, err := json.Marshal(snap.Entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO activation_log (tick_id, entries_json, winning_name, winning_tier, winning_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.TickID, string(entriesJSON), nullIfEmpty(snap.WinningName), snap.WinningTier, snap.WinningScore,
		snap.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save activation log: %w", err)
	}
	return nil
}

// Latest returns the most recently saved snapshot, or the zero Snapshot and
// a nil error if none exists yet.
func (s *Store) Latest() (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT tick_id, entries_json, winning_name, winning_tier, winning_score, created_at
		 FROM activation_log ORDER BY id DESC LIMIT 1`,
	)
	return scanSnapshot(row)
}

// ByTickID returns the snapshot recorded for a single tick, or the zero
// Snapshot and a nil error if none exists.
func (s *Store) ByTickID(tickID string) (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT tick_id, entries_json, winning_name, winning_tier, winning_score, created_at
		 FROM activation_log WHERE tick_id = ? ORDER BY id DESC LIMIT 1`, tickID,
	)
	return scanSnapshot(row)
}

// #endregion store

// #region helpers
func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	var entriesJSON string
	var winningName sql.NullString
	var winningTier sql.NullInt64
	var winningScore sql.NullFloat64
	var createdAt string

	err := row.Scan(&snap.TickID, &entriesJSON, &winningName, &winningTier, &winningScore, &createdAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(entriesJSON), &snap.Entries); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal entries: %w", err)
	}
	snap.WinningName = winningName.String
	snap.WinningTier = int(winningTier.Int64)
	snap.WinningScore = winningScore.Float64
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return snap, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
