package ports

import (
	"gopower/domain/study"
)

// SampleSizeCalculator answers sample-size questions for the supported
// study designs. Pure computation: no context, no side effects.
type SampleSizeCalculator interface {
	// RequiredN returns the smallest integer sample size per arm (independent
	// design) or per subject (paired design) satisfying the request.
	RequiredN(req study.Request) (study.Result, error)

	// Curve evaluates RequiredN pointwise over the given effect values in
	// order, through exactly the scalar path's rounding and clamping, so a
	// curve point and a direct call at the same delta agree. The values are
	// interpreted in the request's effect kind.
	Curve(req study.Request, deltas []float64) ([]study.CurvePoint, error)
}
