package ports

// QuantileSolver inverts the standard normal cumulative distribution.
// Implementations must be safe for concurrent use.
type QuantileSolver interface {
	// Quantile returns z such that CDF(z) = p, accurate to at least 1e-6
	// absolute error for p in [1e-6, 1-1e-6]. Values of p at or outside
	// (0, 1) are an invalid argument, never a saturated result.
	Quantile(p float64) (float64, error)

	// CDF evaluates the standard normal cumulative distribution at z.
	CDF(z float64) float64
}
