package decision

// #region utility-score

// UtilityScore is a coarse discrete priority tier. It doubles as a hard
// upper bound on a Decision's composite score: ComputeScore() can never
// exceed float64(tier), since every Consideration contributes a factor in
// [0,1].
type UtilityScore int

const (
	Ignore         UtilityScore = 0
	SlightlyUseful UtilityScore = 1
	Useful         UtilityScore = 2
	VeryUseful     UtilityScore = 3
	MostUseful     UtilityScore = 4
)

func (u UtilityScore) String() string {
	switch u {
	case Ignore:
		return "Ignore"
	case SlightlyUseful:
		return "SlightlyUseful"
	case Useful:
		return "Useful"
	case VeryUseful:
		return "VeryUseful"
	case MostUseful:
		return "MostUseful"
	default:
		return "Unknown"
	}
}

// #endregion utility-score

// #region compensation-mode

// CompensationMode selects how a Decision combines multiple Consideration
// scores into one composite. Multiplying many sub-unit factors shrinks the
// product quickly; ModificationFactor compensates for that.
type CompensationMode int

const (
	// Unadjusted multiplies consideration scores directly: tier * prod(c).
	Unadjusted CompensationMode = iota
	// ModificationFactor applies adjusted(c) = c + (1-c)*f*c with
	// f = 1 - 1/k, k = number of considerations. Preferred default.
	ModificationFactor
)

// #endregion compensation-mode

// #region action

// Action is invoked when a Decision is selected and executed. It receives
// the Decision itself so the callback can introspect name/tier for logging.
type Action func(d *Decision)

// #endregion action
