package store

import "time"

// #region tick-record

// TickRecord is one row of the audit trail: the outcome of a single
// BestDecision/Execute cycle. This is an operational log only — the
// engine's own selection algorithm never reads it back, so losing the
// database changes no decision outcome, only the history of what happened.
type TickRecord struct {
	TickID         string
	RaisedEvents   []string
	WinningName    string
	Tier           int
	Score          float64
	Outcome        string // "executed" | "gate_vetoed" | "empty_active_set" | "no_decision_activated" | "error"
	DurationMicros int64
	CreatedAt      time.Time
}

// #endregion tick-record

// #region decision-history

// DecisionHistoryRow tracks the last time each known Decision name was
// selected and executed, across process restarts.
type DecisionHistoryRow struct {
	Name          string
	LastExecuted  time.Time
	ExecuteCount  int64
}

// #endregion decision-history
