package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// limitsOfAgreementZ is the two-sided 95% normal quantile used for
// Bland-Altman limits of agreement.
const limitsOfAgreementZ = 1.959964

// minAgreementPairs is the smallest paired sample that yields a defined
// sample standard deviation with at least one degree of freedom to spare.
const minAgreementPairs = 3

// AgreementEstimator derives variability components from paired
// measurements of the same subjects on two systems. Differences feed the
// inter-system component, per-subject means feed the biological component.
type AgreementEstimator struct{}

// NewAgreementEstimator creates a paired-measurement estimator
func NewAgreementEstimator() *AgreementEstimator {
	return &AgreementEstimator{}
}

// EstimatePairs computes a Bland-Altman style agreement summary from
// paired measurements. Differences are systemB minus systemA, so a
// positive bias means system B reads higher. Requires equal-length,
// finite inputs with at least three pairs.
func (e *AgreementEstimator) EstimatePairs(systemA, systemB []float64) (study.AgreementSummary, error) {
	if len(systemA) != len(systemB) {
		return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", "system A and system B must have the same number of measurements")
	}
	if len(systemA) < minAgreementPairs {
		return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", "at least 3 measurement pairs are required")
	}

	diffs := make([]float64, len(systemA))
	means := make([]float64, len(systemA))
	for i := range systemA {
		a, b := systemA[i], systemB[i]
		if math.IsNaN(a) || math.IsInf(a, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
			return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", "measurements must be finite")
		}
		diffs[i] = b - a
		means[i] = (a + b) / 2
	}

	meanBias, err := stats.Mean(diffs)
	if err != nil {
		return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", err.Error())
	}
	diffSD, err := stats.StandardDeviationSample(diffs)
	if err != nil {
		return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", err.Error())
	}
	betweenSD, err := stats.StandardDeviationSample(means)
	if err != nil {
		return study.AgreementSummary{}, core.NewInvalidArgumentError("pairs", err.Error())
	}

	return study.AgreementSummary{
		Pairs:            len(systemA),
		MeanBias:         meanBias,
		DiffSD:           diffSD,
		BetweenSubjectSD: betweenSD,
		TotalSD:          math.Sqrt(betweenSD*betweenSD + diffSD*diffSD),
		LoALower:         meanBias - limitsOfAgreementZ*diffSD,
		LoAUpper:         meanBias + limitsOfAgreementZ*diffSD,
	}, nil
}

var _ ports.AgreementEstimator = (*AgreementEstimator)(nil)
