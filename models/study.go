package models

import (
	"gopower/domain/study"
)

// Defaults applied when a request omits the error rates, matching the
// usual two-sided 5% / 80% convention.
const (
	DefaultAlpha = 0.05
	DefaultPower = 0.80
)

// Significance builds the error-rate spec with defaults applied. Zero is a
// safe sentinel: neither rate may legally be zero.
func Significance(alpha, power float64) study.SignificanceSpec {
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if power == 0 {
		power = DefaultPower
	}
	return study.SignificanceSpec{Alpha: alpha, Power: power}
}

// DesignOrDefault maps an empty design onto the independent two-group form
func DesignOrDefault(design string) study.Design {
	if design == "" {
		return study.DesignIndependent
	}
	return study.Design(design)
}

// SampleSizeRequest is the wire form of one sample-size question.
// Variability comes either from the biological_sd / intersystem_sd fields
// or from naming a catalog marker via resolution + biomarker.
type SampleSizeRequest struct {
	Alpha          float64 `json:"alpha,omitempty"`
	Power          float64 `json:"power,omitempty"`
	Design         string  `json:"design,omitempty"`
	PairedVariance string  `json:"paired_variance,omitempty"`

	BiologicalSD  float64 `json:"biological_sd,omitempty"`
	IntersystemSD float64 `json:"intersystem_sd,omitempty"`

	Resolution string `json:"resolution,omitempty"`
	Biomarker  string `json:"biomarker,omitempty"`

	Delta      float64 `json:"delta,omitempty"`
	EffectKind string  `json:"effect_kind,omitempty"` // absolute (default) or percent
	Baseline   float64 `json:"baseline,omitempty"`    // reference mean, percent kind only
}

// ToStudyRequest maps the wire form onto the domain request, applying
// defaults. Validation stays with the domain types: anything malformed
// here fails when the calculator checks the request.
func (r SampleSizeRequest) ToStudyRequest() study.Request {
	return study.Request{
		Significance: Significance(r.Alpha, r.Power),
		Design:       DesignOrDefault(r.Design),
		Variability: study.VariabilityModel{
			BiologicalSD:  r.BiologicalSD,
			InterSystemSD: r.IntersystemSD,
		},
		Effect: study.EffectSize{
			Kind:     study.EffectKind(r.EffectKind),
			Value:    r.Delta,
			Baseline: r.Baseline,
		},
		PairedVariance: study.PairedVariance(r.PairedVariance),
	}
}

// CurveRange is the wire form of an evenly spaced effect span.
type CurveRange struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Points int     `json:"points"`
}

// CurveRequest asks for a whole sample-size curve. Explicit deltas win over
// the range; one of the two must be present.
type CurveRequest struct {
	SampleSizeRequest
	Deltas []float64   `json:"deltas,omitempty"`
	Range  *CurveRange `json:"range,omitempty"`
}

// SweepRequest asks for the required n across every marker of one tier.
type SweepRequest struct {
	Resolution     string  `json:"resolution"`
	Alpha          float64 `json:"alpha,omitempty"`
	Power          float64 `json:"power,omitempty"`
	Design         string  `json:"design,omitempty"`
	RelativeEffect float64 `json:"relative_effect"`
	PairedVariance string  `json:"paired_variance,omitempty"`
}

// EstimateRequest carries raw paired measurements. When a delta is present
// the response also includes a suggested sample size computed from the
// estimated variability.
type EstimateRequest struct {
	SystemA []float64 `json:"system_a"`
	SystemB []float64 `json:"system_b"`

	Alpha          float64 `json:"alpha,omitempty"`
	Power          float64 `json:"power,omitempty"`
	Delta          float64 `json:"delta,omitempty"`
	EffectKind     string  `json:"effect_kind,omitempty"`
	Baseline       float64 `json:"baseline,omitempty"`
	Design         string  `json:"design,omitempty"`
	PairedVariance string  `json:"paired_variance,omitempty"`
}

// WantsSuggestion reports whether the request carries study assumptions.
// A zero delta cannot be a real effect, so it doubles as the "summary only"
// sentinel.
func (r EstimateRequest) WantsSuggestion() bool {
	return r.Delta != 0
}

// Effect returns the requested effect size
func (r EstimateRequest) Effect() study.EffectSize {
	return study.EffectSize{
		Kind:     study.EffectKind(r.EffectKind),
		Value:    r.Delta,
		Baseline: r.Baseline,
	}
}

// CatalogTierResponse is the catalog listing body.
type CatalogTierResponse struct {
	Resolution string            `json:"resolution"`
	Label      string            `json:"label"`
	Markers    []study.Biomarker `json:"markers"`
}

// ErrorResponse is the JSON error body every endpoint returns on failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
