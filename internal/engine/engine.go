// Package engine implements the DecisionEngine: an event-gated registry of
// Decisions, a tier-sorted candidate window, and a lazy best-decision
// selection algorithm with upper-bound pruning.
package engine

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/iaus-engine/internal/decision"
)

// #region active-entry

// activeEntry is a non-owning back-reference into rules: the event that
// activated the Decision, paired with the Decision itself. rules owns the
// Decision; Engine must drain activeRules (ClearActive) before any
// structural mutation of rules.
type activeEntry[E comparable] struct {
	event    E
	decision *decision.Decision
}

// #endregion active-entry

// #region engine

// Engine is generic over the event key type so it carries no knowledge of
// any particular application's event enumeration.
type Engine[E comparable] struct {
	rules   map[E][]*decision.Decision
	active  []activeEntry[E]
	events  map[E]bool
	dirty   map[E]bool
	rulesOK bool // false while an active-window re-sort is pending

	graph ActivationGraph
}

// New creates an empty Engine. graph may be nil.
func New[E comparable](graph ActivationGraph) *Engine[E] {
	return &Engine[E]{
		rules:  make(map[E][]*decision.Decision),
		events: make(map[E]bool),
		dirty:  make(map[E]bool),
		graph:  graph,
	}
}

// #endregion engine

// #region add

// Add registers a Decision under one or more events. The Decision is
// appended to each named event's bucket and that event is marked dirty;
// if the event is currently active, the Decision also joins the active
// window at its end. The bucket (and, for an active event, the active
// window) is re-sorted by tier on the next Raise, BestDecision or
// ActiveDecisions call.
func (e *Engine[E]) Add(d *decision.Decision, events ...E) error {
	if d == nil {
		return fmt.Errorf("%w: nil decision", ErrInvalidRegistration)
	}
	if len(events) == 0 {
		return fmt.Errorf("%w: decision %q registered under no events", ErrInvalidRegistration, d.Name)
	}
	for _, ev := range events {
		e.rules[ev] = append(e.rules[ev], d)
		e.dirty[ev] = true
		if e.events[ev] {
			e.active = append(e.active, activeEntry[E]{event: ev, decision: d})
		}
	}
	return nil
}

// #endregion add

// #region flush

// flushSorts resolves pending dirty events: stably re-sorts each dirty
// event's rules bucket by tier descending, and marks the active window for
// re-sort if that event is currently active.
func (e *Engine[E]) flushSorts() {
	if len(e.dirty) == 0 {
		return
	}
	for ev := range e.dirty {
		bucket := e.rules[ev]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Tier > bucket[j].Tier
		})
		if e.events[ev] {
			e.rulesOK = false
		}
	}
	e.dirty = make(map[E]bool)
	if !e.rulesOK {
		e.resortActive()
		e.rulesOK = true
	}
}

func (e *Engine[E]) resortActive() {
	sort.SliceStable(e.active, func(i, j int) bool {
		return e.active[i].decision.Tier > e.active[j].decision.Tier
	})
}

// #endregion flush

// #region raise

// Raise flushes pending sorts, then — if event is not already active —
// appends each of its rules-bucket Decisions to the active window, marks
// the event active, and stably re-sorts the active window by tier.
// Raising an event with no registered Decisions is a no-op beyond marking
// it active.
func (e *Engine[E]) Raise(event E) {
	e.flushSorts()
	if e.events[event] {
		return
	}
	e.events[event] = true
	for _, d := range e.rules[event] {
		e.active = append(e.active, activeEntry[E]{event: event, decision: d})
	}
	e.resortActive()
	e.resetGraph()
}

// #endregion raise

// #region clear-event

// ClearEvent removes every active-window entry bound to event and removes
// event from the active set. The rules bucket is retained so the event may
// be raised again later.
func (e *Engine[E]) ClearEvent(event E) {
	delete(e.events, event)
	filtered := e.active[:0]
	for _, entry := range e.active {
		if entry.event != event {
			filtered = append(filtered, entry)
		}
	}
	e.active = filtered
	e.resetGraph()
}

// #endregion clear-event

// #region clear-active

// ClearActive empties the active window and active event set. rules is
// untouched.
func (e *Engine[E]) ClearActive() {
	e.active = nil
	e.events = make(map[E]bool)
	e.resetGraph()
}

// #endregion clear-active

// #region clear

// Clear empties the active window and then the entire rules registry.
func (e *Engine[E]) Clear() {
	e.ClearActive()
	e.rules = make(map[E][]*decision.Decision)
	e.dirty = make(map[E]bool)
}

// #endregion clear

// #region best-decision

// BestDecision flushes pending sorts, then scans the tier-sorted active
// window with upper-bound pruning: tier is a hard ceiling on a Decision's
// composite score, so the scan stops the instant no later candidate could
// possibly beat the current best. ComputeScore is never called on a pruned
// candidate.
func (e *Engine[E]) BestDecision() (*decision.Decision, error) {
	e.flushSorts()
	if len(e.active) == 0 {
		return nil, ErrEmptyActiveSet
	}

	e.resetGraph()

	bestScore := 0.0
	var best *decision.Decision

	for i, entry := range e.active {
		upperBound := float64(entry.decision.Tier)
		if upperBound == 0 || upperBound < bestScore {
			e.recordSkipped(i)
			break
		}

		score := entry.decision.ComputeScore()
		e.recordScore(i, entry.decision.Name, score)

		if score > bestScore {
			bestScore = score
			best = entry.decision
		}
		if score == upperBound {
			e.recordSkipped(i + 1)
			break
		}
	}

	if bestScore == 0 {
		return nil, ErrNoDecisionActivated
	}
	return best, nil
}

// #endregion best-decision

// #region execute-best

// ExecuteBestDecision selects the best Decision and executes it.
func (e *Engine[E]) ExecuteBestDecision() error {
	d, err := e.BestDecision()
	if err != nil {
		return err
	}
	d.Execute()
	return nil
}

// #endregion execute-best

// #region inspection

// ActiveDecisions flushes pending sorts, then returns a snapshot of the
// current candidate window in priority order.
func (e *Engine[E]) ActiveDecisions() []*decision.Decision {
	e.flushSorts()
	out := make([]*decision.Decision, len(e.active))
	for i, entry := range e.active {
		out[i] = entry.decision
	}
	return out
}

// ActiveEvents returns the current active event set.
func (e *Engine[E]) ActiveEvents() []E {
	out := make([]E, 0, len(e.events))
	for ev := range e.events {
		out = append(out, ev)
	}
	return out
}

// #endregion inspection

// #region activation-graph-wiring

func (e *Engine[E]) resetGraph() {
	if e.graph != nil {
		e.graph.Reset(len(e.active))
	}
}

func (e *Engine[E]) recordScore(i int, name string, score float64) {
	if e.graph != nil {
		e.graph.Record(i, name, score)
	}
}

func (e *Engine[E]) recordSkipped(from int) {
	if e.graph == nil {
		return
	}
	for i := from; i < len(e.active); i++ {
		e.graph.Record(i, e.active[i].decision.Name, -1)
	}
}

// #endregion activation-graph-wiring
