package engine

import (
	"math"
	"testing"

	"gopower/domain/core"
)

// ============================================================================
// TEST: BisectionSolver
// ============================================================================

func TestBisectionSolver_ReferenceQuantiles(t *testing.T) {
	solver := NewBisectionSolver()

	cases := []struct {
		p    float64
		want float64
	}{
		{0.5, 0},
		{0.975, 1.959964},
		{0.95, 1.644854},
		{0.9, 1.281552},
		{0.8, 0.841621},
		{0.05, -1.644854},
		{0.025, -1.959964},
	}

	for _, tc := range cases {
		got, err := solver.Quantile(tc.p)
		if err != nil {
			t.Fatalf("Quantile(%v) failed: %v", tc.p, err)
		}
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("Quantile(%v) = %.8f, want %.6f within 1e-6", tc.p, got, tc.want)
		}
	}
}

func TestBisectionSolver_RoundTrip(t *testing.T) {
	solver := NewBisectionSolver()

	probs := []float64{1e-6, 1e-4, 0.01, 0.1, 0.3, 0.5, 0.7, 0.9, 0.99, 1 - 1e-4, 1 - 1e-6}
	for _, p := range probs {
		z, err := solver.Quantile(p)
		if err != nil {
			t.Fatalf("Quantile(%v) failed: %v", p, err)
		}
		back := solver.CDF(z)
		if math.Abs(back-p) > 1e-6 {
			t.Errorf("CDF(Quantile(%v)) = %v, drift %.2g exceeds 1e-6", p, back, math.Abs(back-p))
		}
	}
}

func TestBisectionSolver_RejectsOutOfRange(t *testing.T) {
	solver := NewBisectionSolver()

	for _, p := range []float64{0, 1, -0.25, 1.25, math.NaN()} {
		_, err := solver.Quantile(p)
		if err == nil {
			t.Errorf("Quantile(%v): expected error, got none", p)
			continue
		}
		if !core.IsInvalidArgument(err) {
			t.Errorf("Quantile(%v): expected invalid-argument error, got %v", p, err)
		}
	}
}

func TestBisectionSolver_CDFShape(t *testing.T) {
	solver := NewBisectionSolver()

	if got := solver.CDF(0); got != 0.5 {
		t.Errorf("CDF(0) = %v, want exactly 0.5", got)
	}
	if got := solver.CDF(bisectionLow); got > 1e-12 {
		t.Errorf("CDF(%v) = %v, want ~0", bisectionLow, got)
	}
	if got := solver.CDF(bisectionHigh); got < 1-1e-12 {
		t.Errorf("CDF(%v) = %v, want ~1", bisectionHigh, got)
	}

	prev := solver.CDF(bisectionLow)
	for z := bisectionLow + 0.5; z <= bisectionHigh; z += 0.5 {
		cur := solver.CDF(z)
		if cur < prev {
			t.Fatalf("CDF not monotone at z=%v: %v < %v", z, cur, prev)
		}
		prev = cur
	}
}

// ============================================================================
// TEST: Backend agreement
// ============================================================================

func TestSolvers_BisectionMatchesGonum(t *testing.T) {
	bisection := NewBisectionSolver()
	gonum := NewGonumSolver()

	probs := []float64{0.001, 0.01, 0.1, 0.25, 0.5, 0.75, 0.9, 0.975, 0.99, 0.999}
	for _, p := range probs {
		zb, err := bisection.Quantile(p)
		if err != nil {
			t.Fatalf("bisection Quantile(%v): %v", p, err)
		}
		zg, err := gonum.Quantile(p)
		if err != nil {
			t.Fatalf("gonum Quantile(%v): %v", p, err)
		}
		if math.Abs(zb-zg) > 1e-8 {
			t.Errorf("backends disagree at p=%v: bisection=%.12f gonum=%.12f", p, zb, zg)
		}
	}
}

func TestGonumSolver_RejectsOutOfRange(t *testing.T) {
	solver := NewGonumSolver()

	for _, p := range []float64{0, 1, -1, 2, math.NaN()} {
		if _, err := solver.Quantile(p); err == nil {
			t.Errorf("Quantile(%v): expected error, got none", p)
		}
	}
}
