package curve

import "testing"

func TestSplineLinearControlPoints(t *testing.T) {
	s, err := NewSpline(SplineLinear, []Point{{0, 0}, {1, 1}, {2, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Evaluate(0); got != 0 {
		t.Fatalf("expected 0 at x=0, got %v", got)
	}
	if got := s.Evaluate(1); got != 1 {
		t.Fatalf("expected 1 at x=1, got %v", got)
	}
	if got := s.Evaluate(0.5); got != 0.5 {
		t.Fatalf("expected 0.5 at midpoint, got %v", got)
	}
}

func TestSplineFlatClampOutsideRange(t *testing.T) {
	s, _ := NewSpline(SplineLinear, []Point{{0, 0.2}, {1, 0.8}})
	if got := s.Evaluate(-5); got != 0.2 {
		t.Fatalf("expected flat clamp below range, got %v", got)
	}
	if got := s.Evaluate(5); got != 0.8 {
		t.Fatalf("expected flat clamp above range, got %v", got)
	}
}

func TestSplineStepBefore(t *testing.T) {
	s, _ := NewSpline(SplineStepBefore, []Point{{0, 0}, {1, 1}, {2, 0.5}})
	if got := s.Evaluate(0.5); got != 1 {
		t.Fatalf("step-before should return next point's Y, got %v", got)
	}
}

func TestSplineStepAfter(t *testing.T) {
	s, _ := NewSpline(SplineStepAfter, []Point{{0, 0}, {1, 1}, {2, 0.5}})
	if got := s.Evaluate(0.5); got != 0 {
		t.Fatalf("step-after should return previous point's Y, got %v", got)
	}
}

func TestSplineMonotoneCubicControlPoints(t *testing.T) {
	s, err := NewSpline(SplineMonotoneCubic, []Point{{0, 0}, {1, 1}, {2, 1}, {3, 0}})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []Point{{0, 0}, {1, 1}, {2, 1}, {3, 0}} {
		if got := s.Evaluate(p.X); abs(got-p.Y) > 1e-9 {
			t.Fatalf("expected %v at x=%v, got %v", p.Y, p.X, got)
		}
	}
}

func TestSplineMonotoneCubicShapePreservation(t *testing.T) {
	s, _ := NewSpline(SplineMonotoneCubic, []Point{{0, 0}, {1, 1}, {2, 1}, {3, 0}})

	// non-decreasing on [0,1]
	prev := s.Evaluate(0)
	for x := 0.1; x <= 1.0; x += 0.1 {
		v := s.Evaluate(x)
		if v < prev-1e-9 {
			t.Fatalf("expected non-decreasing on [0,1], dropped at x=%v", x)
		}
		prev = v
	}

	// flat to within epsilon on [1,2]
	mid := s.Evaluate(1.5)
	if mid < 0.95 || mid > 1.0 {
		t.Fatalf("expected mid-plateau value in [0.95,1.0], got %v", mid)
	}

	// non-increasing on [2,3]
	prev = s.Evaluate(2)
	for x := 2.1; x <= 3.0; x += 0.1 {
		v := s.Evaluate(x)
		if v > prev+1e-9 {
			t.Fatalf("expected non-increasing on [2,3], rose at x=%v", x)
		}
		prev = v
	}
}

func TestSplineRejectsTooFewPoints(t *testing.T) {
	if _, err := NewSpline(SplineLinear, []Point{{0, 0}}); err == nil {
		t.Fatal("expected error for single control point")
	}
}

func TestSplineUnsortedInput(t *testing.T) {
	s, err := NewSpline(SplineLinear, []Point{{1, 1}, {0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Evaluate(0.5); got != 0.5 {
		t.Fatalf("expected sort-then-interpolate, got %v", got)
	}
}

func TestSplineCurveAdapterScalesAndClips(t *testing.T) {
	s, _ := NewSpline(SplineLinear, []Point{{0, 0}, {1, 1}})
	sc := SplineCurve{Spline: s}
	if got := sc.Evaluate(5, 0, 10); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := sc.Evaluate(20, 0, 10); got != 1 {
		t.Fatalf("expected clip to 1, got %v", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
