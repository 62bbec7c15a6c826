package engine

import (
	"math"

	"gopower/domain/study"
	"gopower/ports"
)

// Calculator produces minimum sample sizes for the two supported designs
// from the normal-approximation formulas. Stateless beyond its solver;
// every call recomputes from the request alone.
type Calculator struct {
	solver ports.QuantileSolver
}

// NewCalculator creates a calculator on top of a quantile solver
func NewCalculator(solver ports.QuantileSolver) *Calculator {
	return &Calculator{solver: solver}
}

// RequiredN returns the smallest integer sample size satisfying the request.
//
// Independent design, per group:
//
//	n = ceil( 2 * sigma_total^2 * (z_alpha + z_power)^2 / delta^2 )
//
// Paired design, subjects:
//
//	n = ceil( sigma_diff^2 * (z_alpha + z_power)^2 / delta^2 )
//
// The conservative paired mode keeps the independent factor of 2 on the
// difference variance. A raw requirement below 1 is clamped to 1 before the
// ceiling; rounding is always up so the power guarantee holds at or above
// the nominal target. Large requirements stay in float64 and only the
// integer field saturates.
func (c *Calculator) RequiredN(req study.Request) (study.Result, error) {
	if err := req.Validate(); err != nil {
		return study.Result{}, err
	}

	delta, err := req.Effect.Absolute()
	if err != nil {
		return study.Result{}, err
	}

	zAlpha, err := c.solver.Quantile(req.Significance.AlphaQuantileTarget())
	if err != nil {
		return study.Result{}, err
	}
	zPower, err := c.solver.Quantile(req.Significance.PowerQuantileTarget())
	if err != nil {
		return study.Result{}, err
	}

	sd := req.Variability.SDForDesign(req.Design)
	factor := 2.0
	if req.Design == study.DesignPaired {
		factor = 1.0
		if req.PairedVariance == study.PairedVarianceConservative {
			factor = 2.0
		}
	}

	zSum := zAlpha + zPower
	raw := factor * sd * sd * zSum * zSum / (delta * delta)
	if raw < 1 {
		raw = 1
	}

	return study.Result{
		N:      ceilToInt(raw),
		Raw:    raw,
		ZAlpha: zAlpha,
		ZPower: zPower,
		SD:     sd,
		Delta:  delta,
	}, nil
}

// Curve evaluates RequiredN over the effect values in order. Every point
// goes through the scalar path, so the curve and a direct call agree at any
// shared value. The values are read in the request's effect kind: absolute
// requests sweep native units, percent requests sweep the percent axis
// against the request's baseline.
func (c *Calculator) Curve(req study.Request, deltas []float64) ([]study.CurvePoint, error) {
	points := make([]study.CurvePoint, 0, len(deltas))
	for _, d := range deltas {
		pointReq := req
		pointReq.Effect = study.EffectSize{Kind: req.Effect.Kind, Value: d, Baseline: req.Effect.Baseline}

		res, err := c.RequiredN(pointReq)
		if err != nil {
			return nil, err
		}
		points = append(points, study.CurvePoint{Delta: d, N: res.N})
	}
	return points, nil
}

// ceilToInt rounds up into an int64, saturating instead of wrapping when
// the float requirement exceeds the integer range.
func ceilToInt(raw float64) int64 {
	ceiled := math.Ceil(raw)
	if ceiled >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(ceiled)
}

var _ ports.SampleSizeCalculator = (*Calculator)(nil)
