package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table.
func LogDecision(db *sql.DB, entry ProvenanceEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (tick_id, raised_events, trigger_type, snapshot_json, winning_name, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TickID,
		nullIfEmpty(entry.RaisedEvents),
		entry.TriggerType,
		nullIfEmpty(entry.SnapshotJSON),
		nullIfEmpty(entry.WinningName),
		entry.Outcome,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}
// #endregion log-decision

// #region get-provenance
// GetProvenance returns the most recently logged provenance entry for a
// tick ID, or the zero ProvenanceEntry and sql.ErrNoRows if none exists.
func GetProvenance(db *sql.DB, tickID string) (ProvenanceEntry, error) {
	var entry ProvenanceEntry
	var raisedEvents, snapshotJSON, winningName, reason sql.NullString
	var createdAt string

	err := db.QueryRow(
		`SELECT tick_id, raised_events, trigger_type, snapshot_json, winning_name, outcome, reason, created_at
		 FROM provenance_log WHERE tick_id = ? ORDER BY id DESC LIMIT 1`, tickID,
	).Scan(&entry.TickID, &raisedEvents, &entry.TriggerType, &snapshotJSON, &winningName, &entry.Outcome, &reason, &createdAt)
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("get provenance %s: %w", tickID, err)
	}
	entry.RaisedEvents = raisedEvents.String
	entry.SnapshotJSON = snapshotJSON.String
	entry.WinningName = winningName.String
	entry.Reason = reason.String
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entry, nil
}

// #endregion get-provenance

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
