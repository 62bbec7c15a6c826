// Package testkit generates deterministic synthetic measurement data for
// development seeding and tests.
package testkit

import (
	"math"
	"math/rand"
)

// PairedSeriesConfig configures the synthetic paired-measurement generator
type PairedSeriesConfig struct {
	Pairs        int     `json:"pairs"`
	Mean         float64 `json:"mean"`          // population mean of the underlying quantity
	BiologicalSD float64 `json:"biological_sd"` // between-subject spread
	DiffSD       float64 `json:"diff_sd"`       // target SD of per-subject differences
	Bias         float64 `json:"bias"`          // systematic offset of system B
	Seed         int64   `json:"seed"`
}

// DefaultPairedSeriesConfig returns a plausible intra-individual comparison:
// stenosis-severity-like scale with a modest inter-system disagreement.
func DefaultPairedSeriesConfig() PairedSeriesConfig {
	return PairedSeriesConfig{
		Pairs:        40,
		Mean:         50,
		BiologicalSD: 11.6,
		DiffSD:       3.4,
		Bias:         0.5,
		Seed:         42,
	}
}

// Kit generates synthetic data from a seeded source, so every run with the
// same configuration reproduces the same series.
type Kit struct {
	rng *rand.Rand
}

// NewKit creates a test kit seeded for deterministic generation
func NewKit(seed int64) *Kit {
	return &Kit{rng: rand.New(rand.NewSource(seed))}
}

// PairedSeries draws paired measurements of the same subjects on two
// systems. Each subject gets a true value from N(mean, biologicalSD); each
// arm adds independent noise with SD diffSD/sqrt(2), so the per-subject
// differences come out with SD diffSD. System B additionally carries the
// configured bias.
func (k *Kit) PairedSeries(cfg PairedSeriesConfig) (systemA, systemB []float64) {
	armSD := cfg.DiffSD / math.Sqrt2

	systemA = make([]float64, cfg.Pairs)
	systemB = make([]float64, cfg.Pairs)
	for i := 0; i < cfg.Pairs; i++ {
		truth := cfg.Mean + cfg.BiologicalSD*k.rng.NormFloat64()
		systemA[i] = truth + armSD*k.rng.NormFloat64()
		systemB[i] = truth + cfg.Bias + armSD*k.rng.NormFloat64()
	}
	return systemA, systemB
}

// IndependentSeries draws one arm's measurements: true values from
// N(mean, biologicalSD) read with the full inter-system noise on top.
func (k *Kit) IndependentSeries(n int, mean, biologicalSD, interSystemSD float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + biologicalSD*k.rng.NormFloat64() + interSystemSD*k.rng.NormFloat64()
	}
	return out
}
