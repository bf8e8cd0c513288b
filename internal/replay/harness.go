// Package replay drives a recorded sequence of ticks (raised events plus
// sensor readings) through an already-built Engine and records each tick's
// outcome, so a session can be rerun deterministically and compared against
// an expected trace.
package replay

import (
	"errors"

	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
	"github.com/danielpatrickdp/iaus-engine/internal/engine"
)

// #region sensor-bank

// SensorBank holds named readings that replay Ticks overwrite before each
// tick, and hands out consideration.Sensor closures bound to those names.
// A ruleset's Considerations are wired to SensorBank.Sensor at load time so
// a fixture can drive the same Decisions a live sensor feed would.
type SensorBank struct {
	values map[string]float64
}

// NewSensorBank returns an empty bank; all named sensors read 0 until Set.
func NewSensorBank() *SensorBank {
	return &SensorBank{values: make(map[string]float64)}
}

// Sensor returns a consideration.Sensor that reads whatever name currently
// holds in the bank.
func (b *SensorBank) Sensor(name string) consideration.Sensor {
	return func() float64 { return b.values[name] }
}

// Set overwrites name's current reading.
func (b *SensorBank) Set(name string, value float64) {
	b.values[name] = value
}

// #endregion sensor-bank

// #region types

// Tick is one recorded step: the events to raise and the sensor readings in
// effect while the engine selects and executes its best Decision.
type Tick struct {
	TickID       string
	RaisedEvents []string
	Readings     map[string]float64
}

// Result captures one tick's outcome.
type Result struct {
	TickID      string
	Outcome     string // "executed" | "empty_active_set" | "no_decision_activated" | "error"
	WinningName string
	Err         error
}

// Summary aggregates outcome counts across a run.
type Summary struct {
	TotalTicks          int
	Executed            int
	EmptyActiveSet      int
	NoDecisionActivated int
	Errored             int
}

// #endregion types

// #region run

// Run replays ticks against eng in order, writing each tick's readings into
// bank before raising its events, executing the winning Decision if any,
// then clearing those events before the next tick.
func Run(eng *engine.Engine[string], bank *SensorBank, ticks []Tick) []Result {
	results := make([]Result, 0, len(ticks))

	for _, tick := range ticks {
		for name, v := range tick.Readings {
			bank.Set(name, v)
		}
		for _, ev := range tick.RaisedEvents {
			eng.Raise(ev)
		}

		d, err := eng.BestDecision()
		switch {
		case err == nil:
			d.Execute()
			results = append(results, Result{TickID: tick.TickID, Outcome: "executed", WinningName: d.Name})
		case errors.Is(err, engine.ErrEmptyActiveSet):
			results = append(results, Result{TickID: tick.TickID, Outcome: "empty_active_set", Err: err})
		case errors.Is(err, engine.ErrNoDecisionActivated):
			results = append(results, Result{TickID: tick.TickID, Outcome: "no_decision_activated", Err: err})
		default:
			results = append(results, Result{TickID: tick.TickID, Outcome: "error", Err: err})
		}

		for _, ev := range tick.RaisedEvents {
			eng.ClearEvent(ev)
		}
	}

	return results
}

// Summarize computes aggregate stats from a Run's results.
func Summarize(results []Result) Summary {
	s := Summary{TotalTicks: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case "executed":
			s.Executed++
		case "empty_active_set":
			s.EmptyActiveSet++
		case "no_decision_activated":
			s.NoDecisionActivated++
		default:
			s.Errored++
		}
	}
	return s
}

// #endregion run
