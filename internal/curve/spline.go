package curve

import (
	"fmt"
	"sort"
)

// #region spline-kind

// SplineKind selects the interpolation rule used between control points.
type SplineKind int

const (
	SplineLinear SplineKind = iota
	SplineStepBefore
	SplineStepAfter
	SplineMonotoneCubic
)

// #endregion spline-kind

// #region point

// Point is one control point (x,y) of a Spline.
type Point struct {
	X float64
	Y float64
}

// #endregion point

// #region spline

// Spline is a 1-D interpolating curve over a sorted sequence of control
// points. Evaluation outside the control range flat-clamps to the nearest
// endpoint's Y. Construction precomputes any per-segment coefficients;
// Evaluate is O(log n) via binary search over the sorted X values.
type Spline struct {
	kind   SplineKind
	points []Point

	// Fritsch-Carlson tangents (c1, one per point) and cubic coefficients
	// (c2, c3, length len(points)-1). Unused for non-monotone kinds.
	c1, c2, c3 []float64
}

// NewSpline sorts points by X (stable) and precomputes interpolation state.
// Returns an error if fewer than two points are given.
func NewSpline(kind SplineKind, points []Point) (*Spline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("spline: need at least 2 control points, got %d", len(points))
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	s := &Spline{kind: kind, points: pts}
	if kind == SplineMonotoneCubic {
		s.precomputeMonotoneCubic()
	}
	return s, nil
}

// #endregion spline

// #region monotone-cubic

// precomputeMonotoneCubic computes Fritsch-Carlson tangents and per-segment
// cubic coefficients so evaluation is a single polynomial lookup.
func (s *Spline) precomputeMonotoneCubic() {
	n := len(s.points)
	dx := make([]float64, n-1)
	m := make([]float64, n-1) // secant slopes
	for i := 0; i < n-1; i++ {
		dx[i] = s.points[i+1].X - s.points[i].X
		if dx[i] == 0 {
			m[i] = 0
		} else {
			m[i] = (s.points[i+1].Y - s.points[i].Y) / dx[i]
		}
	}

	c1 := make([]float64, n)
	c1[0] = m[0]
	c1[n-1] = m[n-2]
	for i := 1; i < n-1; i++ {
		if m[i-1]*m[i] <= 0 {
			c1[i] = 0
			continue
		}
		common := dx[i-1] + dx[i]
		c1[i] = 3 * common / ((common+dx[i])/m[i-1] + (common+dx[i-1])/m[i])
	}

	s.c1 = c1
	s.c2 = make([]float64, n-1)
	s.c3 = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		common := c1[i] + c1[i+1] - 2*m[i]
		invDx := 1 / dx[i]
		s.c2[i] = (m[i] - c1[i] - common) * invDx
		s.c3[i] = common * invDx * invDx
	}
}

// #endregion monotone-cubic

// #region evaluate

// Evaluate returns the curve's Y value at x, flat-clamping outside the
// control range.
func (s *Spline) Evaluate(x float64) float64 {
	n := len(s.points)
	if x <= s.points[0].X {
		return s.points[0].Y
	}
	if x >= s.points[n-1].X {
		return s.points[n-1].Y
	}

	i := s.segmentIndex(x)
	p0, p1 := s.points[i], s.points[i+1]

	switch s.kind {
	case SplineStepBefore:
		return p1.Y
	case SplineStepAfter:
		return p0.Y
	case SplineMonotoneCubic:
		d := x - p0.X
		return p0.Y + s.c1[i]*d + s.c2[i]*d*d + s.c3[i]*d*d*d
	default: // SplineLinear
		t := (x - p0.X) / (p1.X - p0.X)
		return (1-t)*p0.Y + t*p1.Y
	}
}

// segmentIndex finds the index i such that points[i].X <= x < points[i+1].X
// via binary search.
func (s *Spline) segmentIndex(x float64) int {
	lo, hi := 0, len(s.points)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.points[mid].X <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// #endregion evaluate

// #region curve-adapter

// SplineCurve wraps a spline as a Curve that first scales its raw input into
// [0,1] using the declared range, evaluates the spline, then clips the
// result — matching the Transform contract so Considerations can hold either.
type SplineCurve struct {
	Spline *Spline
}

func (sc SplineCurve) Evaluate(value, min, max float64) float64 {
	return clip(sc.Spline.Evaluate(scale(value, min, max)))
}

// #endregion curve-adapter
