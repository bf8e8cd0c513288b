package gate

import (
	"fmt"
	"time"
)

// #region gate
// Gate evaluates whether the engine's winning Decision is actually allowed
// to fire this tick. It runs after BestDecision has already ranked
// candidates by ComputeScore, but ahead of Execute: a vetoed Decision's
// Action never runs, even though its Considerations were already sampled.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate checks hard vetoes first, then reports a freshness score for
// logging. activeFlags is the set of world-state flag names currently set
// by sensors (e.g. "negotiating", "low_ammo").
func (g *Gate) Evaluate(
	decisionName string,
	lastExecuted time.Time,
	neverExecuted bool,
	now time.Time,
	activeFlags map[string]bool,
) GateDecision {
	var vetoes []VetoSignal

	// --- Hard veto pass ---

	for _, name := range g.config.Overridden {
		if name == decisionName {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoOverride,
				Reason: fmt.Sprintf("%s is manually overridden", decisionName),
			})
		}
	}

	for flag, blocked := range g.config.SafetyBlocklist {
		if !activeFlags[flag] {
			continue
		}
		for _, name := range blocked {
			if name == decisionName {
				vetoes = append(vetoes, VetoSignal{
					Type:   VetoSafety,
					Reason: fmt.Sprintf("safety flag %q blocks %s", flag, decisionName),
				})
			}
		}
	}

	if !neverExecuted && g.config.MinReexecuteInterval > 0 {
		elapsed := now.Sub(lastExecuted)
		if elapsed < g.config.MinReexecuteInterval {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoCooldown,
				Reason: fmt.Sprintf("%s fired %s ago, cooldown is %s", decisionName, elapsed, g.config.MinReexecuteInterval),
			})
		}
	}

	if len(vetoes) > 0 {
		return GateDecision{
			Action:      "veto",
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
			Freshness:   0,
		}
	}

	// --- Soft scoring ---
	freshness := computeFreshness(lastExecuted, neverExecuted, now, g.config.MinReexecuteInterval)

	return GateDecision{
		Action:      "allow",
		Reason:      fmt.Sprintf("passed gate: freshness=%.4f", freshness),
		Vetoed:      false,
		VetoSignals: nil,
		Freshness:   freshness,
	}
}

// #endregion gate

// #region helpers

// computeFreshness scores how long it has been since the Decision last
// executed, relative to the configured cooldown. Never blocks on its own;
// it is informational, surfaced through logging for operators tuning
// cooldowns and safety blocklists.
func computeFreshness(lastExecuted time.Time, neverExecuted bool, now time.Time, cooldown time.Duration) float64 {
	if neverExecuted {
		return 1.0
	}
	if cooldown <= 0 {
		return 1.0
	}
	elapsed := now.Sub(lastExecuted)
	if elapsed <= 0 {
		return 0.0
	}
	ratio := float64(elapsed) / float64(cooldown)
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}

// #endregion helpers
