package engine

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"gopower/domain/core"
	"gopower/ports"
)

// GonumSolver answers quantile queries through gonum's closed-form inverse
// CDF. Same contract as the bisection solver; selectable at startup and
// used as an independent cross-check in tests.
type GonumSolver struct {
	dist distuv.Normal
}

// NewGonumSolver creates a solver backed by distuv.UnitNormal
func NewGonumSolver() *GonumSolver {
	return &GonumSolver{dist: distuv.UnitNormal}
}

// CDF evaluates the standard normal cumulative distribution at z
func (s *GonumSolver) CDF(z float64) float64 {
	return s.dist.CDF(z)
}

// Quantile returns z with CDF(z) = p for p strictly inside (0, 1)
func (s *GonumSolver) Quantile(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, core.NewInvalidArgumentError("target probability",
			fmt.Sprintf("must be strictly between 0 and 1, got %v", p))
	}
	return s.dist.Quantile(p), nil
}

var _ ports.QuantileSolver = (*GonumSolver)(nil)
