// Package curve implements the response-curve shaping primitives used by
// Considerations: parameterized Transforms and control-point Splines, both
// mapping a raw sensor reading into a [0,1] utility.
package curve

// #region curve-interface

// Curve maps a raw value, together with its declared [min,max] range, into
// a utility. SplineCurve and the Linear and Binary transforms always stay
// in [0,1]; the other transforms do so only for values inside [min,max].
// Transform implements Curve directly; SplineCurve adapts a Spline to the
// same contract.
type Curve interface {
	Evaluate(value, min, max float64) float64
}

// #endregion curve-interface

var (
	_ Curve = Transform{}
	_ Curve = SplineCurve{}
)
