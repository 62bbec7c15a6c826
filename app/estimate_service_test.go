package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopower/adapters/stats/engine"
	"gopower/domain/core"
	"gopower/domain/study"
)

func newEstimateService() *EstimateService {
	calc := engine.NewCalculator(engine.NewBisectionSolver())
	return NewEstimateService(engine.NewAgreementEstimator(), calc)
}

func TestEstimateServiceSummaryOnly(t *testing.T) {
	svc := newEstimateService()

	// Differences (B - A) are {2, -1, 3, 0}: bias 1, sample SD sqrt(10/3).
	outcome, err := svc.Estimate(context.Background(), EstimateCommand{
		SystemA: []float64{10, 12, 14, 16},
		SystemB: []float64{12, 11, 17, 16},
	})
	require.NoError(t, err)

	assert.False(t, core.ID(outcome.EstimateID).IsEmpty())
	assert.Equal(t, 4, outcome.Summary.Pairs)
	assert.InDelta(t, 1.0, outcome.Summary.MeanBias, 1e-9)
	assert.InDelta(t, 1.8257419, outcome.Summary.DiffSD, 1e-6)
	assert.Equal(t, outcome.Summary.DiffSD, outcome.Variability.InterSystemSD)
	assert.Equal(t, outcome.Summary.BetweenSubjectSD, outcome.Variability.BiologicalSD)
	assert.Nil(t, outcome.Suggested)
}

func TestEstimateServiceSuggestsSampleSize(t *testing.T) {
	svc := newEstimateService()

	outcome, err := svc.Estimate(context.Background(), EstimateCommand{
		SystemA:      []float64{10, 12, 14, 16},
		SystemB:      []float64{12, 11, 17, 16},
		Significance: &study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Effect:       effectOf(2),
	})
	require.NoError(t, err)

	// Paired by default: n = ceil((10/3) * (z_a + z_p)^2 / 4) = ceil(6.54) = 7.
	require.NotNil(t, outcome.Suggested)
	assert.Equal(t, int64(7), outcome.Suggested.N)
	assert.InDelta(t, 6.54, outcome.Suggested.Raw, 0.01)
	assert.InDelta(t, outcome.Summary.DiffSD, outcome.Suggested.SD, 1e-12)
}

func TestEstimateServiceSuggestionNeedsBothAssumptions(t *testing.T) {
	svc := newEstimateService()

	outcome, err := svc.Estimate(context.Background(), EstimateCommand{
		SystemA:      []float64{10, 12, 14, 16},
		SystemB:      []float64{12, 11, 17, 16},
		Significance: &study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
	})
	require.NoError(t, err)
	assert.Nil(t, outcome.Suggested)
}

func TestEstimateServiceRejectsBadPairs(t *testing.T) {
	svc := newEstimateService()

	_, err := svc.Estimate(context.Background(), EstimateCommand{
		SystemA: []float64{1, 2, 3},
		SystemB: []float64{1, 2},
	})
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgument(err))
}

func effectOf(delta float64) *study.EffectSize {
	e := study.AbsoluteEffect(delta)
	return &e
}
