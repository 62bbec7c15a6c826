package ports

import (
	"gopower/domain/study"
)

// AgreementEstimator derives variability inputs from raw paired measurements
// of the same subjects on two systems.
type AgreementEstimator interface {
	// EstimatePairs summarizes agreement between the two series. The slices
	// must be the same length, index-aligned by subject, with at least
	// three pairs.
	EstimatePairs(systemA, systemB []float64) (study.AgreementSummary, error)
}
