package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table: the full
// context behind one BestDecision outcome, kept for debugging and replay.
type ProvenanceEntry struct {
	TickID       string
	RaisedEvents string // JSON array of event names
	TriggerType  string
	SnapshotJSON string
	WinningName  string
	Outcome      string // "executed" | "gate_vetoed" | "empty_active_set" | "no_decision_activated" | "error"
	Reason       string
	CreatedAt    time.Time
}
// #endregion provenance-entry

// #region activation-record
// ActivationRecord is a JSON-tagged form of the activation-graph snapshot
// for a single tick. The runtime fills provenance_log.snapshot_json from
// activationlog.Snapshot, not from this type.
type ActivationRecord struct {
	TickID  string              `json:"tick_id"`
	Entries []ActivationEntry   `json:"entries"`

	WinningName string  `json:"winning_name,omitempty"`
	WinningTier int     `json:"winning_tier,omitempty"`
	WinningScore float64 `json:"winning_score,omitempty"`
}

// ActivationEntry is one candidate's recorded score for a tick, or -1 if it
// was skipped by tier pruning.
type ActivationEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
// #endregion activation-record
