package graph

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS rule_edges (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	event_name    TEXT NOT NULL,
	decision_name TEXT NOT NULL,
	weight        REAL NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	UNIQUE(event_name, decision_name)
);`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// #region test-add-edge
func TestAddEdge(t *testing.T) {
	db := setupTestDB(t)
	g := NewRuleGraph(db)

	if err := g.AddEdge("low_health", "retreat", 0.1); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	edges, err := g.DecisionsForEvent("low_health", 0.0)
	if err != nil {
		t.Fatalf("decisions for event: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].DecisionName != "retreat" {
		t.Errorf("unexpected edge: %+v", edges[0])
	}
	if math.Abs(edges[0].Weight-0.1) > 0.001 {
		t.Errorf("expected weight 0.1, got %.4f", edges[0].Weight)
	}

	// Duplicate insert should be ignored
	if err := g.AddEdge("low_health", "retreat", 0.5); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	edges, _ = g.DecisionsForEvent("low_health", 0.0)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge after duplicate, got %d", len(edges))
	}
	if math.Abs(edges[0].Weight-0.1) > 0.001 {
		t.Errorf("weight should not change on ignore, got %.4f", edges[0].Weight)
	}
}

// #endregion test-add-edge

// #region test-increment-edge
func TestIncrementEdge(t *testing.T) {
	db := setupTestDB(t)
	g := NewRuleGraph(db)

	if err := g.IncrementEdge("low_health", "retreat", 0.1); err != nil {
		t.Fatalf("increment: %v", err)
	}

	edges, _ := g.DecisionsForEvent("low_health", 0.0)
	if len(edges) != 1 || math.Abs(edges[0].Weight-0.1) > 0.001 {
		t.Fatalf("first increment: expected weight 0.1, got %+v", edges)
	}

	if err := g.IncrementEdge("low_health", "retreat", 0.1); err != nil {
		t.Fatalf("increment 2: %v", err)
	}
	edges, _ = g.DecisionsForEvent("low_health", 0.0)
	if math.Abs(edges[0].Weight-0.2) > 0.001 {
		t.Errorf("expected weight 0.2, got %.4f", edges[0].Weight)
	}

	// Cap at 1.0
	if err := g.IncrementEdge("low_health", "retreat", 5.0); err != nil {
		t.Fatalf("increment big: %v", err)
	}
	edges, _ = g.DecisionsForEvent("low_health", 0.0)
	if math.Abs(edges[0].Weight-1.0) > 0.001 {
		t.Errorf("expected weight capped at 1.0, got %.4f", edges[0].Weight)
	}
}

// #endregion test-increment-edge

// #region test-decisions-for-event
func TestDecisionsForEventOrderedByWeight(t *testing.T) {
	db := setupTestDB(t)
	g := NewRuleGraph(db)

	g.AddEdge("low_health", "retreat", 0.8)
	g.AddEdge("low_health", "heal", 0.5)
	g.AddEdge("low_health", "flee", 0.2)

	edges, err := g.DecisionsForEvent("low_health", 0.3)
	if err != nil {
		t.Fatalf("decisions for event: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges above min weight, got %d: %+v", len(edges), edges)
	}
	if edges[0].DecisionName != "retreat" || edges[1].DecisionName != "heal" {
		t.Errorf("expected descending weight order, got %+v", edges)
	}
}

// #endregion test-decisions-for-event

// #region test-decay
func TestDecayAll(t *testing.T) {
	db := setupTestDB(t)
	g := NewRuleGraph(db)

	past := time.Now().UTC().Add(-96 * time.Hour).Format(time.RFC3339)
	db.Exec(
		`INSERT INTO rule_edges (event_name, decision_name, weight, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		"stale_event", "stale_decision", 0.1, past, past,
	)

	g.AddEdge("fresh_event", "fresh_decision", 0.5)

	deleted, err := g.DecayAll(48.0)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}

	edges, _ := g.DecisionsForEvent("fresh_event", 0.0)
	if len(edges) != 1 {
		t.Fatalf("fresh edge should survive, got %d", len(edges))
	}
	if edges[0].Weight < 0.49 {
		t.Errorf("fresh edge should barely decay, got %.4f", edges[0].Weight)
	}

	_ = deleted // stale edge (0.1 * exp(-2*ln2) = 0.025) survives too, above 0.01 floor
}

// #endregion test-decay

// #region test-sever
func TestSeverDecisionAndEvent(t *testing.T) {
	db := setupTestDB(t)
	g := NewRuleGraph(db)

	g.AddEdge("low_health", "retreat", 0.5)
	g.AddEdge("low_ammo", "retreat", 0.5)
	g.AddEdge("low_health", "heal", 0.3)

	if err := g.SeverDecision("retreat"); err != nil {
		t.Fatalf("sever decision: %v", err)
	}
	edges, _ := g.DecisionsForEvent("low_health", 0.0)
	if len(edges) != 1 || edges[0].DecisionName != "heal" {
		t.Errorf("expected only 'heal' edge to remain, got %+v", edges)
	}

	if err := g.SeverEvent("low_health"); err != nil {
		t.Fatalf("sever event: %v", err)
	}
	edges, _ = g.DecisionsForEvent("low_health", 0.0)
	if len(edges) != 0 {
		t.Errorf("expected 0 edges from low_health after sever, got %d", len(edges))
	}
}

// #endregion test-sever
