package study

import (
	"fmt"

	"gopower/domain/core"
)

// SignificanceSpec fixes the error rates the study must satisfy.
// Both rates live strictly inside the open unit interval: values at or
// beyond the boundary make the corresponding quantile infinite.
type SignificanceSpec struct {
	Alpha float64 `json:"alpha"` // two-sided type I error rate
	Power float64 `json:"power"` // 1 - type II error rate
}

// Validate rejects rates at or outside (0, 1). NaN fails both comparisons.
func (s SignificanceSpec) Validate() error {
	if !(s.Alpha > 0 && s.Alpha < 1) {
		return core.NewInvalidArgumentError("alpha", fmt.Sprintf("must be strictly between 0 and 1, got %v", s.Alpha))
	}
	if !(s.Power > 0 && s.Power < 1) {
		return core.NewInvalidArgumentError("power", fmt.Sprintf("must be strictly between 0 and 1, got %v", s.Power))
	}
	return nil
}

// AlphaQuantileTarget is the cumulative probability whose quantile is the
// two-sided critical value: 1 - alpha/2.
func (s SignificanceSpec) AlphaQuantileTarget() float64 {
	return 1 - s.Alpha/2
}

// PowerQuantileTarget is the cumulative probability whose quantile is the
// power z-score: the power itself.
func (s SignificanceSpec) PowerQuantileTarget() float64 {
	return s.Power
}
