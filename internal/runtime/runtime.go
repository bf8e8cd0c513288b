// Package runtime is the top-level per-tick coordinator: it drives one
// engine.Engine[string] cycle end to end — raise events, select the best
// Decision, gate it, execute it, and persist the audit trail (tick log,
// provenance entry, activation snapshot, event/decision correlation
// weights).
package runtime

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/iaus-engine/internal/activationlog"
	"github.com/danielpatrickdp/iaus-engine/internal/decision"
	"github.com/danielpatrickdp/iaus-engine/internal/engine"
	"github.com/danielpatrickdp/iaus-engine/internal/gate"
	"github.com/danielpatrickdp/iaus-engine/internal/graph"
	"github.com/danielpatrickdp/iaus-engine/internal/logging"
	"github.com/danielpatrickdp/iaus-engine/internal/store"
	"github.com/danielpatrickdp/iaus-engine/internal/telemetry"
)

// #region coordinator

// Coordinator wires one Engine to the Gate veto layer and the SQLite audit
// trail. Pass ticks for persistence; Coordinator shares its *sql.DB with
// graph and activationlog rather than opening its own connection.
type Coordinator struct {
	eng       *engine.Engine[string]
	gate      *gate.Gate
	recorder  *activationlog.Recorder
	snapshots *activationlog.Store
	ticks     *store.Store
	rules     *graph.RuleGraph
	enabled   bool
}

// NewCoordinator builds a fully wired Coordinator around an already
// populated Engine and its Recorder (the Recorder must be the same
// instance passed to engine.New as its ActivationGraph).
// Kill switch: set IAUS_RUNTIME_ENABLED=false to run the engine with gating
// disabled — every winning Decision executes unconditionally.
func NewCoordinator(eng *engine.Engine[string], recorder *activationlog.Recorder, gateConfig gate.GateConfig, ticks *store.Store) *Coordinator {
	enabled := true
	if v := os.Getenv("IAUS_RUNTIME_ENABLED"); v == "false" {
		enabled = false
	}

	return &Coordinator{
		eng:       eng,
		gate:      gate.NewGate(gateConfig),
		recorder:  recorder,
		snapshots: activationlog.NewStore(ticks.DB()),
		ticks:     ticks,
		rules:     graph.NewRuleGraph(ticks.DB()),
		enabled:   enabled,
	}
}

// Enabled returns whether gating is active.
func (c *Coordinator) Enabled() bool {
	return c.enabled
}

// #endregion coordinator

// #region tick-result

// TickResult is the outcome of one Tick call.
type TickResult struct {
	TickID      string
	Outcome     string // "executed" | "empty_active_set" | "no_decision_activated" | "gate_vetoed" | "error"
	WinningName string
	Reason      string
}

// #endregion tick-result

// #region tick

// Tick raises the given events, selects the engine's best Decision, gates
// it, executes it if allowed, and persists the full audit trail.
// activeFlags is the set of world-state flag names currently set,
// consulted by the Gate's safety blocklist.
func (c *Coordinator) Tick(tickID string, raisedEvents []string, activeFlags map[string]bool) TickResult {
	if tickID == "" {
		tickID = uuid.New().String()
	}
	start := time.Now()

	for _, ev := range raisedEvents {
		c.eng.Raise(ev)
	}

	result := TickResult{TickID: tickID}
	var winner *decision.Decision

	d, err := c.eng.BestDecision()
	switch {
	case err == nil:
		winner = d
		result.WinningName = d.Name
		if c.enabled {
			gd := c.gate.Evaluate(d.Name, d.LastExecutedAt(), d.NeverExecuted(), time.Now(), activeFlags)
			if gd.Vetoed {
				result.Outcome = "gate_vetoed"
				result.Reason = gd.Reason
				log.Printf("[RUNTIME] tick=%s vetoed decision=%s reason=%s", tickID, d.Name, gd.Reason)
				break
			}
		}
		d.Execute()
		result.Outcome = "executed"
	case errors.Is(err, engine.ErrEmptyActiveSet):
		result.Outcome = "empty_active_set"
		result.Reason = err.Error()
	case errors.Is(err, engine.ErrNoDecisionActivated):
		result.Outcome = "no_decision_activated"
		result.Reason = err.Error()
	default:
		result.Outcome = "error"
		result.Reason = err.Error()
	}

	c.persist(tickID, raisedEvents, result, winner, time.Since(start))

	for _, ev := range raisedEvents {
		c.eng.ClearEvent(ev)
	}

	return result
}

// #endregion tick

// #region persist

// persist writes the tick log, provenance entry, and activation snapshot,
// and bumps event/decision correlation weights when a Decision actually
// executed. Persistence failures are logged, not returned: losing the
// audit trail must never block the next tick.
func (c *Coordinator) persist(tickID string, raisedEvents []string, result TickResult, winner *decision.Decision, duration time.Duration) {
	entries := c.recorder.Entries()
	candidates := make([]telemetry.Candidate, len(entries))
	for i, e := range entries {
		candidates[i] = telemetry.Candidate{Name: e.Name, Score: e.Score}
	}

	var tier int
	var score float64
	if winner != nil {
		tier = int(winner.Tier)
		for _, e := range entries {
			if e.Name == winner.Name && e.Score >= 0 {
				score = e.Score
				break
			}
		}
	}

	metrics := telemetry.Compute(time.Now().Add(-duration), candidates, result.WinningName, score, tier, result.Outcome)

	rec := store.TickRecord{
		TickID:         tickID,
		RaisedEvents:   raisedEvents,
		WinningName:    result.WinningName,
		Tier:           metrics.WinningTier,
		Score:          metrics.WinningScore,
		Outcome:        result.Outcome,
		DurationMicros: metrics.DurationMicros,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.ticks.RecordTick(rec); err != nil {
		log.Printf("[RUNTIME] record tick %s: %v", tickID, err)
	}

	snap := activationlog.Snapshot{
		TickID:       tickID,
		Entries:      entries,
		WinningName:  result.WinningName,
		WinningTier:  tier,
		WinningScore: score,
	}
	if err := c.snapshots.Save(snap); err != nil {
		log.Printf("[RUNTIME] save activation snapshot %s: %v", tickID, err)
	}

	snapshotJSON, _ := json.Marshal(snap)
	eventsJSON, _ := json.Marshal(raisedEvents)
	entry := logging.ProvenanceEntry{
		TickID:       tickID,
		RaisedEvents: string(eventsJSON),
		TriggerType:  "tick",
		SnapshotJSON: string(snapshotJSON),
		WinningName:  result.WinningName,
		Outcome:      result.Outcome,
		Reason:       result.Reason,
	}
	if err := logging.LogDecision(c.ticks.DB(), entry); err != nil {
		log.Printf("[RUNTIME] log provenance %s: %v", tickID, err)
	}

	if result.Outcome != "executed" {
		return
	}
	for _, ev := range raisedEvents {
		if err := c.rules.AddEdge(ev, result.WinningName, 0); err != nil {
			log.Printf("[RUNTIME] add edge %s->%s: %v", ev, result.WinningName, err)
			continue
		}
		if err := c.rules.IncrementEdge(ev, result.WinningName, 0.1); err != nil {
			log.Printf("[RUNTIME] increment edge %s->%s: %v", ev, result.WinningName, err)
		}
	}
}

// #endregion persist
