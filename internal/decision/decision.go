// Package decision implements the scoring and execution of a single
// candidate behavior: a tier, an ordered list of Considerations, and an
// Action.
package decision

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
)

// scoreEpsilon is the running-product floor below which ComputeScore
// short-circuits the remaining Considerations. Matches the original
// implementation's early-exit constant.
const scoreEpsilon = 1e-6

// #region decision

// Decision composes a name, description, base utility tier, an ordered
// list of Considerations, and an Action. The only mutable field is the
// last-executed timestamp, updated by Execute.
type Decision struct {
	Name            string
	Description     string
	Tier            UtilityScore
	Considerations  []consideration.Consideration
	OnExecute       Action
	CompensationFor CompensationMode

	executedAt time.Time // zero value means never executed
}

// New constructs a Decision. Fails with InvalidRegistration-class error if
// no Considerations are given, since the compensation formula divides by
// their count.
func New(name, description string, tier UtilityScore, considerations []consideration.Consideration, onExecute Action, mode CompensationMode) (*Decision, error) {
	if len(considerations) == 0 {
		return nil, fmt.Errorf("decision %q: must have at least one consideration", name)
	}
	return &Decision{
		Name:            name,
		Description:     description,
		Tier:            tier,
		Considerations:  considerations,
		OnExecute:       onExecute,
		CompensationFor: mode,
	}, nil
}

// #endregion decision

// #region compute-score

// ComputeScore returns tier * prod(adjusted(consideration scores)), short-
// circuiting the moment the running product drops below scoreEpsilon —
// remaining Considerations' sensors are not evaluated in that case. This
// ordering matters: sensor callbacks may have side effects observable by
// Considerations or Actions evaluated later in the same tick.
func (d *Decision) ComputeScore() float64 {
	k := len(d.Considerations)
	factor := 1 - 1/float64(k)

	total := 1.0
	for _, c := range d.Considerations {
		score := c.Score()
		adjusted := score
		if d.CompensationFor == ModificationFactor {
			adjusted = score + (1-score)*factor*score
			if adjusted > 1 {
				adjusted = 1
			}
		}
		total *= adjusted
		if total < scoreEpsilon {
			return 0
		}
	}
	return float64(d.Tier) * total
}

// #endregion compute-score

// #region execute

// Execute records the current time as the last-executed timestamp, then
// invokes the Action, if any.
func (d *Decision) Execute() {
	d.executedAt = time.Now()
	if d.OnExecute != nil {
		d.OnExecute(d)
	}
}

// NeverExecuted reports whether Execute has never run on this Decision.
func (d *Decision) NeverExecuted() bool {
	return d.executedAt.IsZero()
}

// LastExecutedAt returns the timestamp of the most recent Execute call, or
// the zero time if Execute has never run.
func (d *Decision) LastExecutedAt() time.Time {
	return d.executedAt
}

// TimeSinceExecution returns the elapsed duration since the last Execute
// call, measured against now. Returns 0 if never executed.
func (d *Decision) TimeSinceExecution(now time.Time) time.Duration {
	if d.NeverExecuted() {
		return 0
	}
	return now.Sub(d.executedAt)
}

// #endregion execute
