package app

import (
	"context"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// EstimateService turns raw paired measurements into variability inputs,
// and optionally into a sample-size suggestion for a follow-up study built
// on the estimated components.
type EstimateService struct {
	estimator  ports.AgreementEstimator
	calculator ports.SampleSizeCalculator
}

// NewEstimateService creates an estimate service
func NewEstimateService(estimator ports.AgreementEstimator, calculator ports.SampleSizeCalculator) *EstimateService {
	return &EstimateService{
		estimator:  estimator,
		calculator: calculator,
	}
}

// EstimateCommand carries the two measurement series, index-aligned by
// subject, plus optional study assumptions. When both Significance and
// Effect are present the outcome includes a suggested sample size computed
// from the estimated variability.
type EstimateCommand struct {
	SystemA []float64
	SystemB []float64

	Significance   *study.SignificanceSpec
	Effect         *study.EffectSize
	Design         study.Design // defaults to paired, the design the data came from
	PairedVariance study.PairedVariance
}

// EstimateOutcome is the agreement summary with its derived inputs.
type EstimateOutcome struct {
	EstimateID  core.EstimateID        `json:"estimate_id"`
	Summary     study.AgreementSummary `json:"summary"`
	Variability study.VariabilityModel `json:"variability"`
	Suggested   *study.Result          `json:"suggested,omitempty"`
}

// Estimate summarizes agreement between the two series and, when study
// assumptions were supplied, suggests a sample size using the estimated
// variability in place of published values.
func (s *EstimateService) Estimate(ctx context.Context, cmd EstimateCommand) (*EstimateOutcome, error) {
	summary, err := s.estimator.EstimatePairs(cmd.SystemA, cmd.SystemB)
	if err != nil {
		return nil, err
	}

	outcome := &EstimateOutcome{
		EstimateID:  core.EstimateID(core.NewID()),
		Summary:     summary,
		Variability: summary.Variability(),
	}

	if cmd.Significance != nil && cmd.Effect != nil {
		design := cmd.Design
		if design == "" {
			design = study.DesignPaired
		}

		result, err := s.calculator.RequiredN(study.Request{
			Significance:   *cmd.Significance,
			Design:         design,
			Variability:    outcome.Variability,
			Effect:         *cmd.Effect,
			PairedVariance: cmd.PairedVariance,
		})
		if err != nil {
			return nil, err
		}
		outcome.Suggested = &result
	}

	return outcome, nil
}
