package app

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopower/adapters/catalog"
	"gopower/adapters/stats/engine"
	"gopower/domain/core"
	"gopower/domain/study"
)

func newSweepService(concurrency int64) *SweepService {
	calc := engine.NewCalculator(engine.NewBisectionSolver())
	return NewSweepService(calc, catalog.NewBuiltinCatalog(), concurrency)
}

func TestSweepServiceRunIndependent(t *testing.T) {
	svc := newSweepService(4)

	outcome, err := svc.Run(context.Background(), SweepRequest{
		Resolution:     study.ResolutionUltraHigh,
		Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:         study.DesignIndependent,
		RelativeEffect: 0.5,
	})
	require.NoError(t, err)

	require.Len(t, outcome.Rows, 11)
	assert.False(t, core.ID(outcome.SweepID).IsEmpty())
	assert.Equal(t, study.ResolutionUltraHigh, outcome.Resolution)

	// Sizing against half of each marker's own deviation cancels the scale:
	// n = ceil(2 z^2 / 0.25) regardless of the marker.
	for _, row := range outcome.Rows {
		assert.Equal(t, int64(63), row.Result.N, "marker %s", row.Key)
	}

	sorted := sort.SliceIsSorted(outcome.Rows, func(i, j int) bool {
		return outcome.Rows[i].Key < outcome.Rows[j].Key
	})
	assert.True(t, sorted, "rows must be ordered by key")
}

func TestSweepServiceDeltaUsesDesignSD(t *testing.T) {
	svc := newSweepService(2)

	outcome, err := svc.Run(context.Background(), SweepRequest{
		Resolution:     study.ResolutionUltraHigh,
		Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:         study.DesignIndependent,
		RelativeEffect: 0.5,
	})
	require.NoError(t, err)

	var row *SweepRow
	for i := range outcome.Rows {
		if outcome.Rows[i].Key == "stenosis_severity" {
			row = &outcome.Rows[i]
		}
	}
	require.NotNil(t, row)

	// Independent design sizes against the combined deviation:
	// sqrt(11.6^2 + 10.2^2) = 15.4467, half of it 7.7234.
	assert.InDelta(t, 0.5*math.Sqrt(11.6*11.6+10.2*10.2), row.Delta, 1e-12)
	assert.InDelta(t, 7.7234, row.Delta, 1e-4)
}

func TestSweepServicePairedModes(t *testing.T) {
	svc := newSweepService(2)

	canonical, err := svc.Run(context.Background(), SweepRequest{
		Resolution:     study.ResolutionStandard,
		Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:         study.DesignPaired,
		RelativeEffect: 0.5,
	})
	require.NoError(t, err)

	conservative, err := svc.Run(context.Background(), SweepRequest{
		Resolution:     study.ResolutionStandard,
		Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:         study.DesignPaired,
		RelativeEffect: 0.5,
		PairedVariance: study.PairedVarianceConservative,
	})
	require.NoError(t, err)

	require.Len(t, canonical.Rows, 2)
	for i, row := range canonical.Rows {
		assert.Equal(t, int64(32), row.Result.N, "marker %s", row.Key)
		assert.Equal(t, int64(63), conservative.Rows[i].Result.N, "marker %s", row.Key)
	}
}

func TestSweepServiceValidation(t *testing.T) {
	svc := newSweepService(2)

	cases := []struct {
		name string
		req  SweepRequest
	}{
		{"unknown resolution", SweepRequest{
			Resolution:     "hyperfine",
			Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
			Design:         study.DesignPaired,
			RelativeEffect: 0.5,
		}},
		{"zero relative effect", SweepRequest{
			Resolution:     study.ResolutionStandard,
			Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
			Design:         study.DesignPaired,
			RelativeEffect: 0,
		}},
		{"alpha out of range", SweepRequest{
			Resolution:     study.ResolutionStandard,
			Significance:   study.SignificanceSpec{Alpha: 1, Power: 0.80},
			Design:         study.DesignPaired,
			RelativeEffect: 0.5,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Run(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, core.IsInvalidArgument(err))
		})
	}
}

func TestSweepServiceCancelledContext(t *testing.T) {
	svc := newSweepService(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, SweepRequest{
		Resolution:     study.ResolutionUltraHigh,
		Significance:   study.SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:         study.DesignIndependent,
		RelativeEffect: 0.5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
