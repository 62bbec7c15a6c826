package engine

import (
	"sync"

	"gopower/ports"
)

// CachedSolver memoizes quantile lookups. Callers resolve the same handful
// of probabilities over and over (one per alpha, one per power target), so
// a small map removes nearly all repeat work. Safe for concurrent use.
type CachedSolver struct {
	inner ports.QuantileSolver

	mu   sync.RWMutex
	memo map[float64]float64
}

// NewCachedSolver wraps a solver with a memo keyed on the target probability
func NewCachedSolver(inner ports.QuantileSolver) *CachedSolver {
	return &CachedSolver{
		inner: inner,
		memo:  make(map[float64]float64),
	}
}

// CDF delegates to the underlying solver; the forward direction is cheap
func (s *CachedSolver) CDF(z float64) float64 {
	return s.inner.CDF(z)
}

// Quantile returns the memoized quantile, computing it on first use.
// Errors are never cached: invalid probabilities fail on every call.
func (s *CachedSolver) Quantile(p float64) (float64, error) {
	s.mu.RLock()
	z, ok := s.memo[p]
	s.mu.RUnlock()
	if ok {
		return z, nil
	}

	z, err := s.inner.Quantile(p)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.memo[p] = z
	s.mu.Unlock()
	return z, nil
}

var _ ports.QuantileSolver = (*CachedSolver)(nil)
