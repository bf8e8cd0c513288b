// Package telemetry computes per-tick metrics from the engine's recorded
// candidate snapshot. It is a pure function over its inputs, mirroring the
// teacher's Update(): no I/O, no mutation, a single Metrics value out.
package telemetry

import "time"

// #region compute

// Compute builds a tick's Metrics from its activation snapshot. tickStart
// is the time BestDecision was invoked; candidates is that call's recorded
// scores in priority order (score -1 marks a tier-pruned skip).
func Compute(tickStart time.Time, candidates []Candidate, winningName string, winningScore float64, winningTier int, outcome string) Metrics {
	var evaluated, skipped int
	for _, c := range candidates {
		if c.Score < 0 {
			skipped++
		} else {
			evaluated++
		}
	}

	return Metrics{
		DurationMicros:      time.Since(tickStart).Microseconds(),
		CandidatesTotal:     len(candidates),
		CandidatesEvaluated: evaluated,
		CandidatesSkipped:   skipped,
		WinningName:         winningName,
		WinningScore:        winningScore,
		WinningTier:         winningTier,
		Outcome:             outcome,
	}
}

// #endregion compute
