package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE provenance_log (
		tick_id        TEXT NOT NULL,
		raised_events  TEXT,
		trigger_type   TEXT NOT NULL,
		snapshot_json  TEXT,
		winning_name   TEXT,
		outcome        TEXT NOT NULL,
		reason         TEXT,
		created_at     TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-decision-tests
func TestLogDecision_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := ProvenanceEntry{
		TickID:       "tick-1",
		RaisedEvents: `["low_health"]`,
		TriggerType:  "tick",
		SnapshotJSON: `{"entries":[{"name":"retreat","score":2.4}]}`,
		WinningName:  "retreat",
		Outcome:      "executed",
		Reason:       "highest composite score",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogDecision(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM provenance_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var tickID, outcome string
	db.QueryRow("SELECT tick_id, outcome FROM provenance_log").Scan(&tickID, &outcome)
	if tickID != "tick-1" {
		t.Errorf("expected tick_id 'tick-1', got %q", tickID)
	}
	if outcome != "executed" {
		t.Errorf("expected outcome 'executed', got %q", outcome)
	}
}

func TestLogDecision_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := ProvenanceEntry{
		TickID:      "tick-2",
		TriggerType: "manual",
		Outcome:     "no_decision_activated",
	}

	before := time.Now().UTC()
	if err := LogDecision(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM provenance_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogDecision_EmptyOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry := ProvenanceEntry{
		TickID:      "tick-3",
		TriggerType: "tick",
		Outcome:     "empty_active_set",
		CreatedAt:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogDecision(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raisedEvents, snapshotJSON, winningName, reason sql.NullString
	db.QueryRow("SELECT raised_events, snapshot_json, winning_name, reason FROM provenance_log").Scan(
		&raisedEvents, &snapshotJSON, &winningName, &reason,
	)
	if raisedEvents.Valid {
		t.Error("expected NULL raised_events for empty string")
	}
	if snapshotJSON.Valid {
		t.Error("expected NULL snapshot_json for empty string")
	}
	if winningName.Valid {
		t.Error("expected NULL winning_name for empty string")
	}
	if reason.Valid {
		t.Error("expected NULL reason for empty string")
	}
}

func TestLogDecision_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	entry := ProvenanceEntry{
		TickID:      "tick-4",
		TriggerType: "tick",
		Outcome:     "executed",
	}

	if err := LogDecision(db, entry); err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-decision-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	if result := nullIfEmpty(""); result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	if result := nullIfEmpty("hello"); result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
