package study

// Request carries one complete sample-size question. Value semantics: built
// once, validated, never mutated by the engine.
type Request struct {
	Significance   SignificanceSpec `json:"significance"`
	Design         Design           `json:"design"`
	Variability    VariabilityModel `json:"variability"`
	Effect         EffectSize       `json:"effect"`
	PairedVariance PairedVariance   `json:"paired_variance,omitempty"` // paired design only; empty means canonical
}

// Validate checks every component before any arithmetic runs
func (r Request) Validate() error {
	if err := r.Significance.Validate(); err != nil {
		return err
	}
	if err := r.Design.Validate(); err != nil {
		return err
	}
	if err := r.Variability.Validate(); err != nil {
		return err
	}
	if err := r.Effect.Validate(); err != nil {
		return err
	}
	if _, err := ParsePairedVariance(string(r.PairedVariance)); err != nil {
		return err
	}
	return nil
}

// Result is the answer to a Request.
//
// N is the smallest integer satisfying the power requirement, never below 1.
// Raw is the unrounded float requirement; when it exceeds the int64 range,
// N saturates at the maximum rather than wrapping, and Raw keeps the true
// magnitude.
type Result struct {
	N      int64   `json:"n"`
	Raw    float64 `json:"raw"`
	ZAlpha float64 `json:"z_alpha"`
	ZPower float64 `json:"z_power"`
	SD     float64 `json:"sd"`    // deviation term the design's formula used
	Delta  float64 `json:"delta"` // effect size after percent resolution, native units
}

// CurvePoint is one evaluated point of a sample-size curve. Delta is the
// swept input value in the request's effect kind (absolute units or percent).
type CurvePoint struct {
	Delta float64 `json:"delta"`
	N     int64   `json:"n"`
}
