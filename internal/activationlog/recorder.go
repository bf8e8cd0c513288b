// Package activationlog implements the engine.ActivationGraph observer and
// persists completed tick snapshots to SQLite for replay and external debug
// views. It never feeds back into BestDecision.
package activationlog

import "github.com/danielpatrickdp/iaus-engine/internal/engine"

// #region recorder

// Recorder is a live engine.ActivationGraph sink. It accumulates one tick's
// candidate scores in priority order; read Entries after BestDecision
// returns to capture the result (e.g. into a Snapshot). The engine itself
// calls Reset at the start of each BestDecision and whenever the active
// window changes.
type Recorder struct {
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset implements engine.ActivationGraph.
func (r *Recorder) Reset(n int) {
	r.entries = make([]Entry, n)
}

// Record implements engine.ActivationGraph. Skipped candidates (tier
// pruning) are recorded with the -1 sentinel score.
func (r *Recorder) Record(index int, name string, score float64) {
	if index < 0 || index >= len(r.entries) {
		return
	}
	r.entries[index] = Entry{Name: name, Score: score}
}

// Entries returns the recorded candidate list for the most recent tick, in
// priority order.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// #endregion recorder

// #region compile-time-assertion
var _ engine.ActivationGraph = (*Recorder)(nil)

// #endregion compile-time-assertion
