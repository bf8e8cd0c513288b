// Package graph tracks how often each raised Event has historically
// correlated with each Decision winning that tick, for an external debug
// view. None of this feeds back into BestDecision.
package graph

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// #region types
// Edge represents a weighted link between a raised Event and a Decision
// that won a tick while that Event was active.
type Edge struct {
	ID           int64
	EventName    string
	DecisionName string
	Weight       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RuleGraph manages the rule_edges table. It shares its underlying
// *sql.DB with store.Store rather than opening its own file.
type RuleGraph struct {
	db *sql.DB
}

// #endregion types

// #region constructor
// NewRuleGraph wraps an already-migrated *sql.DB (see store.Store.DB).
func NewRuleGraph(db *sql.DB) *RuleGraph {
	return &RuleGraph{db: db}
}

// #endregion constructor

// #region add-edge
// AddEdge inserts a new edge. If the edge already exists it is ignored.
func (g *RuleGraph) AddEdge(eventName, decisionName string, weight float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := g.db.Exec(
		`INSERT OR IGNORE INTO rule_edges (event_name, decision_name, weight, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eventName, decisionName, weight, now, now,
	)
	if err != nil {
		return fmt.Errorf("add edge: %w", err)
	}
	return nil
}

// #endregion add-edge

// #region increment-edge
// IncrementEdge increases the weight of an existing edge by delta, capped at
// 1.0. If the edge doesn't exist, it is created with weight=delta. Called
// once per tick for each (raised event, winning decision) pair.
func (g *RuleGraph) IncrementEdge(eventName, decisionName string, delta float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := g.db.Exec(
		`INSERT INTO rule_edges (event_name, decision_name, weight, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(event_name, decision_name) DO UPDATE SET
		   weight = MIN(1.0, rule_edges.weight + ?),
		   updated_at = ?`,
		eventName, decisionName, delta, now, now,
		delta, now,
	)
	if err != nil {
		return fmt.Errorf("increment edge: %w", err)
	}
	return nil
}

// #endregion increment-edge

// #region get-neighbors
// DecisionsForEvent returns all edges from eventName with weight >= minWeight,
// ordered by weight descending.
func (g *RuleGraph) DecisionsForEvent(eventName string, minWeight float64) ([]Edge, error) {
	rows, err := g.db.Query(
		`SELECT id, event_name, decision_name, weight, created_at, updated_at
		 FROM rule_edges
		 WHERE event_name = ? AND weight >= ?
		 ORDER BY weight DESC`,
		eventName, minWeight,
	)
	if err != nil {
		return nil, fmt.Errorf("decisions for event: %w", err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.EventName, &e.DecisionName, &e.Weight, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// #endregion get-neighbors

// #region decay
// DecayAll applies exponential decay to all edge weights based on time since
// last update. Edges that fall below 0.01 are deleted. Returns the count of
// deleted edges.
func (g *RuleGraph) DecayAll(halfLifeHours float64) (int64, error) {
	now := time.Now().UTC()
	halfLifeSec := halfLifeHours * 3600.0

	rows, err := g.db.Query(`SELECT id, weight, updated_at FROM rule_edges`)
	if err != nil {
		return 0, fmt.Errorf("decay query: %w", err)
	}

	type decayItem struct {
		id        int64
		newWeight float64
	}
	var updates []decayItem
	var deletes []int64

	for rows.Next() {
		var id int64
		var weight float64
		var updatedAt string
		if err := rows.Scan(&id, &weight, &updatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("decay scan: %w", err)
		}
		t, _ := time.Parse(time.RFC3339, updatedAt)
		ageSec := now.Sub(t).Seconds()
		if ageSec <= 0 {
			continue
		}
		decayed := weight * math.Exp(-ageSec*math.Ln2/halfLifeSec)
		if decayed < 0.01 {
			deletes = append(deletes, id)
		} else {
			updates = append(updates, decayItem{id, decayed})
		}
	}
	rows.Close()

	nowStr := now.Format(time.RFC3339)
	for _, u := range updates {
		if _, err := g.db.Exec(`UPDATE rule_edges SET weight = ?, updated_at = ? WHERE id = ?`, u.newWeight, nowStr, u.id); err != nil {
			return 0, fmt.Errorf("decay update: %w", err)
		}
	}
	for _, id := range deletes {
		if _, err := g.db.Exec(`DELETE FROM rule_edges WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("decay delete: %w", err)
		}
	}

	return int64(len(deletes)), nil
}

// #endregion decay

// #region sever
// SeverDecision deletes all edges pointing at decisionName, e.g. when a
// ruleset is reloaded without that Decision.
func (g *RuleGraph) SeverDecision(decisionName string) error {
	_, err := g.db.Exec(`DELETE FROM rule_edges WHERE decision_name = ?`, decisionName)
	if err != nil {
		return fmt.Errorf("sever decision: %w", err)
	}
	return nil
}

// SeverEvent deletes all edges originating from eventName.
func (g *RuleGraph) SeverEvent(eventName string) error {
	_, err := g.db.Exec(`DELETE FROM rule_edges WHERE event_name = ?`, eventName)
	if err != nil {
		return fmt.Errorf("sever event: %w", err)
	}
	return nil
}

// #endregion sever
