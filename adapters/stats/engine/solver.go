package engine

import (
	"fmt"
	"math"

	"gopower/domain/core"
	"gopower/ports"
)

// Bisection bracket and iteration count. The standard normal CDF spans
// effectively all of (0, 1) inside [-10, 10] at double precision; eighty
// halvings shrink the initial bracket width of 20 below 2e-23, far inside
// the 1e-6 accuracy contract.
const (
	bisectionLow        = -10.0
	bisectionHigh       = 10.0
	bisectionIterations = 80
)

// BisectionSolver inverts the standard normal CDF by bounded binary search,
// evaluating the forward CDF through the error function at each step. It
// carries no state and needs no precomputed inverse-erf approximation.
type BisectionSolver struct{}

// NewBisectionSolver creates a bisection-based quantile solver
func NewBisectionSolver() *BisectionSolver {
	return &BisectionSolver{}
}

// CDF evaluates the standard normal cumulative distribution at z
func (s *BisectionSolver) CDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// Quantile returns z with CDF(z) = p for p strictly inside (0, 1).
// Termination policy: a fixed count of bisectionIterations halvings; the
// final bracket midpoint is the answer. The bracket moves its lower edge
// while the midpoint CDF is below the target and its upper edge otherwise.
func (s *BisectionSolver) Quantile(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, core.NewInvalidArgumentError("target probability",
			fmt.Sprintf("must be strictly between 0 and 1, got %v", p))
	}

	lo, hi := bisectionLow, bisectionHigh
	for i := 0; i < bisectionIterations; i++ {
		mid := 0.5 * (lo + hi)
		if s.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}

var _ ports.QuantileSolver = (*BisectionSolver)(nil)
