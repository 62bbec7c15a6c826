package study

import (
	"fmt"
	"math"

	"gopower/domain/core"
)

// VariabilityModel carries the measurement-spread components of a biomarker.
// The two variances are assumed independent and additive.
type VariabilityModel struct {
	BiologicalSD  float64 `json:"biological_sd"`  // between-subject spread of the underlying population
	InterSystemSD float64 `json:"intersystem_sd"` // spread attributable to measuring on two different systems
}

// TotalSD is the aggregate deviation the independent design uses:
// sqrt(biological^2 + intersystem^2).
func (v VariabilityModel) TotalSD() float64 {
	return math.Sqrt(v.BiologicalSD*v.BiologicalSD + v.InterSystemSD*v.InterSystemSD)
}

// DiffSD is the deviation of within-subject differences the paired design
// uses. Biological spread cancels by differencing; the inter-system term
// stands in for the difference SD.
func (v VariabilityModel) DiffSD() float64 {
	return v.InterSystemSD
}

// SDForDesign returns the deviation term the given design's formula consumes
func (v VariabilityModel) SDForDesign(d Design) float64 {
	if d == DesignPaired {
		return v.DiffSD()
	}
	return v.TotalSD()
}

// Validate rejects negative or non-finite components. Zero is legal: a
// degenerate spread collapses the requirement to the clamp floor.
func (v VariabilityModel) Validate() error {
	if !(v.BiologicalSD >= 0) || math.IsInf(v.BiologicalSD, 0) {
		return core.NewInvalidArgumentError("biological_sd", fmt.Sprintf("must be a finite value >= 0, got %v", v.BiologicalSD))
	}
	if !(v.InterSystemSD >= 0) || math.IsInf(v.InterSystemSD, 0) {
		return core.NewInvalidArgumentError("intersystem_sd", fmt.Sprintf("must be a finite value >= 0, got %v", v.InterSystemSD))
	}
	return nil
}
