package study

import (
	"fmt"
	"math"
	"strings"

	"gopower/domain/core"
)

// EffectKind distinguishes how an expected difference is expressed.
type EffectKind string

const (
	// EffectAbsolute is a difference in the measurement's native unit.
	EffectAbsolute EffectKind = "absolute"
	// EffectPercent is a relative difference as a percentage of a reference
	// baseline mean; converted to absolute units before any formula sees it.
	EffectPercent EffectKind = "percent"
)

// ParseEffectKind normalizes an effect kind tag; empty means absolute
func ParseEffectKind(s string) (EffectKind, error) {
	switch EffectKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", EffectAbsolute:
		return EffectAbsolute, nil
	case EffectPercent:
		return EffectPercent, nil
	default:
		return "", core.NewInvalidArgumentError("effect.kind", fmt.Sprintf("unknown kind %q", s))
	}
}

// EffectSize is the smallest difference the study must be able to detect.
type EffectSize struct {
	Kind     EffectKind `json:"kind"`
	Value    float64    `json:"value"`
	Baseline float64    `json:"baseline,omitempty"` // reference mean, percent kind only
}

// AbsoluteEffect builds an effect size in native units
func AbsoluteEffect(delta float64) EffectSize {
	return EffectSize{Kind: EffectAbsolute, Value: delta}
}

// PercentEffect builds an effect size as a percentage of a baseline mean
func PercentEffect(pct, baseline float64) EffectSize {
	return EffectSize{Kind: EffectPercent, Value: pct, Baseline: baseline}
}

// Absolute resolves the effect to the measurement's native unit.
// Percent effects convert as |baseline| * value / 100. A resolved difference
// of zero (or below, or NaN) is rejected: the formulas divide by it.
func (e EffectSize) Absolute() (float64, error) {
	kind, err := ParseEffectKind(string(e.Kind))
	if err != nil {
		return 0, err
	}

	var delta float64
	switch kind {
	case EffectAbsolute:
		delta = e.Value
	case EffectPercent:
		delta = math.Abs(e.Baseline) * e.Value / 100
	}

	if !(delta > 0) || math.IsInf(delta, 0) {
		return 0, core.NewInvalidArgumentError("effect size",
			fmt.Sprintf("must resolve to a strictly positive finite difference, got %v", delta))
	}
	return delta, nil
}

// Validate checks the effect resolves to a usable difference
func (e EffectSize) Validate() error {
	_, err := e.Absolute()
	return err
}
