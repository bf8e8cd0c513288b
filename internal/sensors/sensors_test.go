package sensors

import (
	"math/rand"
	"testing"
)

func TestConstant(t *testing.T) {
	s := Constant(4.2)
	if v := s(); v != 4.2 {
		t.Errorf("expected 4.2, got %f", v)
	}
	if v := s(); v != 4.2 {
		t.Errorf("expected repeated reads to stay 4.2, got %f", v)
	}
}

func TestClampedWithinRange(t *testing.T) {
	s := Clamped(Constant(5), 0, 10)
	if v := s(); v != 5 {
		t.Errorf("expected 5, got %f", v)
	}
}

func TestClampedBelowMin(t *testing.T) {
	s := Clamped(Constant(-5), 0, 10)
	if v := s(); v != 0 {
		t.Errorf("expected clamp to 0, got %f", v)
	}
}

func TestClampedAboveMax(t *testing.T) {
	s := Clamped(Constant(50), 0, 10)
	if v := s(); v != 10 {
		t.Errorf("expected clamp to 10, got %f", v)
	}
}

func TestRandomWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Random(rng, 2, 8)
	for i := 0; i < 100; i++ {
		v := s()
		if v < 2 || v >= 8 {
			t.Fatalf("reading %f outside [2,8)", v)
		}
	}
}

func TestRandomDrawsFreshValueEachCall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Random(rng, 0, 1)
	first := s()
	second := s()
	if first == second {
		t.Error("expected two consecutive draws to differ (extremely unlikely collision)")
	}
}

func TestDerivedWeightedSum(t *testing.T) {
	s := Derived(WeightedSum(0.5, 0.5), Constant(4), Constant(6))
	if v := s(); v != 5 {
		t.Errorf("expected weighted mean 5, got %f", v)
	}
}

func TestWeightedSumIgnoresExtraReadings(t *testing.T) {
	combine := WeightedSum(1.0)
	v := combine([]float64{3, 100, 200})
	if v != 3 {
		t.Errorf("expected only the first weighted reading to count, got %f", v)
	}
}

func TestDerivedSamplesEachBaseSensorOnce(t *testing.T) {
	calls := 0
	counting := func() float64 {
		calls++
		return float64(calls)
	}
	s := Derived(WeightedSum(1, 1), counting, counting)
	s()
	if calls != 2 {
		t.Errorf("expected each base sensor sampled once per call, got %d calls", calls)
	}
}
