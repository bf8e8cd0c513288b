package eval

import (
	"fmt"
)

// #region eval-harness
// EvalHarness runs lightweight runtime invariant checks on one tick's
// engine output. It never feeds back into BestDecision; it exists to catch
// regressions in the scoring/sorting invariants during development and
// replay.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks a tick's consideration scores and active-decision snapshot
// against the engine's stated invariants: every consideration score lies in
// [0,1], every recorded composite score is bounded by its Decision's tier,
// and the active snapshot is sorted by tier, descending.
func (h *EvalHarness) Run(considerationScores []float64, active []ActiveEntry) EvalResult {
	var metrics []EvalMetric
	passed := true
	var failReasons []string

	// 1. Consideration scores must lie in [0,1].
	for i, v := range considerationScores {
		pass := v >= 0 && v <= 1
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("consideration_%d_in_range", i),
			Value: v,
			Pass:  pass,
		})
		if !pass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("consideration %d score %.6f outside [0,1]", i, v))
		}
	}

	// 2. Each recorded score must not exceed its Decision's tier upper
	// bound. Skipped candidates (sentinel -1) are exempt.
	for _, e := range active {
		if e.Score < 0 {
			continue
		}
		pass := e.Score <= float64(e.Tier)+h.config.ScoreTolerance
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("%s_score_bounded_by_tier", e.Name),
			Value: e.Score,
			Pass:  pass,
		})
		if !pass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("%s score %.6f exceeds tier bound %d", e.Name, e.Score, e.Tier))
		}
	}

	// 3. Active snapshot must be sorted by tier, descending, ignoring
	// sentinel entries.
	sortedPass := isSortedDescending(active)
	metrics = append(metrics, EvalMetric{
		Name:  "active_sorted_descending",
		Value: boolToFloat(sortedPass),
		Pass:  sortedPass,
	})
	if !sortedPass {
		passed = false
		failReasons = append(failReasons, "active snapshot is not sorted by tier descending")
	}

	reason := "all invariants held"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers

// isSortedDescending checks non-increasing tier order over the non-sentinel
// entries, in the order they appear in active.
func isSortedDescending(active []ActiveEntry) bool {
	prev := 0
	first := true
	for _, e := range active {
		if e.Score < 0 {
			continue
		}
		if !first && e.Tier > prev {
			return false
		}
		prev = e.Tier
		first = false
	}
	return true
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
