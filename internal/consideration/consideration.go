// Package consideration implements a single scored axis of a Decision's
// utility: a sensor callback, an input range, and a shaping curve.
package consideration

import "github.com/danielpatrickdp/iaus-engine/internal/curve"

// #region sensor

// Sensor reads one raw value from host state. Called once per
// Consideration per tick; may mutate host state via captured references.
type Sensor func() float64

// #endregion sensor

// #region consideration

// Consideration holds a description, a sensor callback, an input range,
// and a shaping curve. Score() always returns a value in [0,1].
type Consideration struct {
	Description string
	Sensor      Sensor
	Min, Max    float64
	Curve       curve.Curve
}

// New builds a Consideration. Curve may be a curve.Transform value or a
// curve.SplineCurve wrapping a curve.Spline.
func New(description string, sensor Sensor, min, max float64, c curve.Curve) Consideration {
	return Consideration{
		Description: description,
		Sensor:      sensor,
		Min:         min,
		Max:         max,
		Curve:       c,
	}
}

// Score reads the sensor, shapes the result through the curve, and clips
// it to [0,1].
func (c Consideration) Score() float64 {
	raw := c.Sensor()
	v := c.Curve.Evaluate(raw, c.Min, c.Max)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion consideration
