package telemetry

// #region candidate
// Candidate is one recorded candidate score from a tick's activation
// snapshot, or the -1 sentinel if tier pruning skipped it.
type Candidate struct {
	Name  string
	Score float64
}

// #endregion candidate

// #region metrics
// Metrics captures telemetry from one BestDecision call: how many
// candidates were in the active set, how many were actually scored versus
// skipped by tier pruning, and the outcome.
type Metrics struct {
	DurationMicros      int64
	CandidatesTotal     int
	CandidatesEvaluated int
	CandidatesSkipped   int
	WinningName         string
	WinningScore        float64
	WinningTier         int
	Outcome             string // "executed" | "gate_vetoed" | "empty_active_set" | "no_decision_activated" | "error"
}

// #endregion metrics
