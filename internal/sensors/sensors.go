// Package sensors provides small helpers for building consideration.Sensor
// callbacks. The concrete set of application readings a host exposes (health,
// threat, fatigue, and so on) is outside this module's scope; these helpers
// only cover the host-agnostic shaping a sensor callback commonly needs.
package sensors

import (
	"math/rand"

	"github.com/danielpatrickdp/iaus-engine/internal/consideration"
)

// #region constant-and-clamped

// Constant returns a Sensor that always reads the same value, useful for
// stubbing a Consideration in tests or demos before a real reading exists.
func Constant(value float64) consideration.Sensor {
	return func() float64 { return value }
}

// Clamped wraps fn so its reading is always restricted to [min, max] before
// the owning Consideration's curve sees it. Consideration.Score clips its
// curve's output to [0,1] regardless, but a raw reading outside the
// Consideration's declared range can still distort Transform/Spline shaping
// upstream of that clip; Clamped guards against a misbehaving source.
func Clamped(fn consideration.Sensor, min, max float64) consideration.Sensor {
	return func() float64 {
		v := fn()
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}
}

// #endregion constant-and-clamped

// #region random

// Random returns a Sensor that draws a fresh uniform value in [min, max) on
// every call, using rng. This is the shape of the demo decisions in the
// original example program: each tick, a Decision's only Consideration
// samples a new random draw rather than reading real host state.
func Random(rng *rand.Rand, min, max float64) consideration.Sensor {
	span := max - min
	return func() float64 {
		return min + rng.Float64()*span
	}
}

// #endregion random

// #region derived

// Combinator reduces a set of raw readings into one derived value, e.g. a
// weighted sum.
type Combinator func(readings []float64) float64

// Derived composes several base sensors into a single Sensor by sampling
// each of them once per call (in order) and reducing the results with
// combine. Mirrors combining several raw measurements (entropy, diversity,
// and so on) into one heuristic signal.
func Derived(combine Combinator, base ...consideration.Sensor) consideration.Sensor {
	return func() float64 {
		readings := make([]float64, len(base))
		for i, s := range base {
			readings[i] = s()
		}
		return combine(readings)
	}
}

// WeightedSum returns a Combinator computing sum(readings[i] * weights[i]).
// Readings beyond len(weights) are ignored; a short weights slice effectively
// zero-weights the remaining readings.
func WeightedSum(weights ...float64) Combinator {
	return func(readings []float64) float64 {
		var total float64
		for i, r := range readings {
			if i >= len(weights) {
				break
			}
			total += r * weights[i]
		}
		return total
	}
}

// #endregion derived
