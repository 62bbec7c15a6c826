package study

import (
	"math"
	"testing"

	"gopower/domain/core"
)

func TestSignificanceSpec_Validate(t *testing.T) {
	cases := []struct {
		name    string
		spec    SignificanceSpec
		wantErr bool
	}{
		{"typical", SignificanceSpec{Alpha: 0.05, Power: 0.80}, false},
		{"tight", SignificanceSpec{Alpha: 0.001, Power: 0.99}, false},
		{"alpha zero", SignificanceSpec{Alpha: 0, Power: 0.8}, true},
		{"alpha one", SignificanceSpec{Alpha: 1, Power: 0.8}, true},
		{"alpha negative", SignificanceSpec{Alpha: -0.05, Power: 0.8}, true},
		{"power zero", SignificanceSpec{Alpha: 0.05, Power: 0}, true},
		{"power one", SignificanceSpec{Alpha: 0.05, Power: 1}, true},
		{"alpha NaN", SignificanceSpec{Alpha: math.NaN(), Power: 0.8}, true},
		{"power NaN", SignificanceSpec{Alpha: 0.05, Power: math.NaN()}, true},
	}

	for _, tc := range cases {
		err := tc.spec.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if tc.wantErr && err != nil && !core.IsInvalidArgument(err) {
			t.Errorf("%s: error is not an invalid-argument error: %v", tc.name, err)
		}
	}
}

func TestSignificanceSpec_QuantileTargets(t *testing.T) {
	spec := SignificanceSpec{Alpha: 0.05, Power: 0.80}

	if got := spec.AlphaQuantileTarget(); math.Abs(got-0.975) > 1e-12 {
		t.Errorf("alpha quantile target = %v, want 0.975", got)
	}
	if got := spec.PowerQuantileTarget(); got != 0.80 {
		t.Errorf("power quantile target = %v, want 0.80", got)
	}
}

func TestEffectSize_Absolute(t *testing.T) {
	t.Run("absolute passes through", func(t *testing.T) {
		delta, err := AbsoluteEffect(10).Absolute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if delta != 10 {
			t.Errorf("delta = %v, want 10", delta)
		}
	})

	t.Run("empty kind defaults to absolute", func(t *testing.T) {
		delta, err := EffectSize{Value: 2.5}.Absolute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if delta != 2.5 {
			t.Errorf("delta = %v, want 2.5", delta)
		}
	})

	t.Run("percent converts against baseline", func(t *testing.T) {
		delta, err := PercentEffect(10, 120).Absolute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(delta-12) > 1e-12 {
			t.Errorf("delta = %v, want 12", delta)
		}
	})

	t.Run("percent uses baseline magnitude", func(t *testing.T) {
		delta, err := PercentEffect(10, -120).Absolute()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(delta-12) > 1e-12 {
			t.Errorf("delta = %v, want 12", delta)
		}
	})

	t.Run("zero effect rejected", func(t *testing.T) {
		if _, err := AbsoluteEffect(0).Absolute(); !core.IsInvalidArgument(err) {
			t.Errorf("expected invalid-argument error, got %v", err)
		}
	})

	t.Run("negative effect rejected", func(t *testing.T) {
		if _, err := AbsoluteEffect(-1).Absolute(); !core.IsInvalidArgument(err) {
			t.Errorf("expected invalid-argument error, got %v", err)
		}
	})

	t.Run("percent of zero baseline rejected", func(t *testing.T) {
		if _, err := PercentEffect(10, 0).Absolute(); !core.IsInvalidArgument(err) {
			t.Errorf("expected invalid-argument error, got %v", err)
		}
	})

	t.Run("NaN rejected", func(t *testing.T) {
		if _, err := AbsoluteEffect(math.NaN()).Absolute(); !core.IsInvalidArgument(err) {
			t.Errorf("expected invalid-argument error, got %v", err)
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		e := EffectSize{Kind: "relative", Value: 1}
		if _, err := e.Absolute(); !core.IsInvalidArgument(err) {
			t.Errorf("expected invalid-argument error, got %v", err)
		}
	})
}

func TestVariabilityModel_DesignTerms(t *testing.T) {
	v := VariabilityModel{BiologicalSD: 11.6, InterSystemSD: 2.4}

	wantTotal := math.Sqrt(11.6*11.6 + 2.4*2.4)
	if got := v.TotalSD(); math.Abs(got-wantTotal) > 1e-12 {
		t.Errorf("TotalSD = %v, want %v", got, wantTotal)
	}
	if math.Abs(v.TotalSD()-11.8456) > 1e-3 {
		t.Errorf("TotalSD = %v, want about 11.8456", v.TotalSD())
	}
	if got := v.DiffSD(); got != 2.4 {
		t.Errorf("DiffSD = %v, want 2.4", got)
	}
	if got := v.SDForDesign(DesignIndependent); got != v.TotalSD() {
		t.Errorf("SDForDesign(independent) = %v, want total %v", got, v.TotalSD())
	}
	if got := v.SDForDesign(DesignPaired); got != v.DiffSD() {
		t.Errorf("SDForDesign(paired) = %v, want diff %v", got, v.DiffSD())
	}
}

func TestVariabilityModel_Validate(t *testing.T) {
	if err := (VariabilityModel{BiologicalSD: 0, InterSystemSD: 0}).Validate(); err != nil {
		t.Errorf("zero components should be legal, got %v", err)
	}
	if err := (VariabilityModel{BiologicalSD: -1, InterSystemSD: 1}).Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("negative biological SD should fail, got %v", err)
	}
	if err := (VariabilityModel{BiologicalSD: 1, InterSystemSD: -1}).Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("negative inter-system SD should fail, got %v", err)
	}
	if err := (VariabilityModel{BiologicalSD: math.NaN()}).Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("NaN biological SD should fail, got %v", err)
	}
	if err := (VariabilityModel{BiologicalSD: math.Inf(1)}).Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("infinite biological SD should fail, got %v", err)
	}
}

func TestParseDesign(t *testing.T) {
	if d, err := ParseDesign(" Independent "); err != nil || d != DesignIndependent {
		t.Errorf("ParseDesign(independent) = %v, %v", d, err)
	}
	if d, err := ParseDesign("paired"); err != nil || d != DesignPaired {
		t.Errorf("ParseDesign(paired) = %v, %v", d, err)
	}
	if _, err := ParseDesign(""); !core.IsInvalidArgument(err) {
		t.Errorf("empty design should fail, got %v", err)
	}
	if _, err := ParseDesign("crossover"); !core.IsInvalidArgument(err) {
		t.Errorf("unknown design should fail, got %v", err)
	}
}

func TestParsePairedVariance(t *testing.T) {
	if m, err := ParsePairedVariance(""); err != nil || m != PairedVarianceCanonical {
		t.Errorf("empty mode should default to canonical, got %v, %v", m, err)
	}
	if m, err := ParsePairedVariance("conservative"); err != nil || m != PairedVarianceConservative {
		t.Errorf("ParsePairedVariance(conservative) = %v, %v", m, err)
	}
	if _, err := ParsePairedVariance("double"); !core.IsInvalidArgument(err) {
		t.Errorf("unknown mode should fail, got %v", err)
	}
}

func TestParseResolution(t *testing.T) {
	if r, err := ParseResolution("Standard"); err != nil || r != ResolutionStandard {
		t.Errorf("ParseResolution(standard) = %v, %v", r, err)
	}
	if r, err := ParseResolution("UHR"); err != nil || r != ResolutionUltraHigh {
		t.Errorf("ParseResolution(uhr) = %v, %v", r, err)
	}
	if _, err := ParseResolution("photon"); !core.IsInvalidArgument(err) {
		t.Errorf("unknown resolution should fail, got %v", err)
	}

	if ResolutionStandard.Label() != "Standard resolution (0.4 mm)" {
		t.Errorf("unexpected standard label %q", ResolutionStandard.Label())
	}
	if ResolutionUltraHigh.Label() != "Ultrahigh-resolution (0.2 mm)" {
		t.Errorf("unexpected uhr label %q", ResolutionUltraHigh.Label())
	}
}

func TestRequest_Validate(t *testing.T) {
	good := Request{
		Significance: SignificanceSpec{Alpha: 0.05, Power: 0.80},
		Design:       DesignIndependent,
		Variability:  VariabilityModel{BiologicalSD: 11.6, InterSystemSD: 2.4},
		Effect:       AbsoluteEffect(10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := good
	bad.Significance.Alpha = 0
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("alpha=0 should fail, got %v", err)
	}

	bad = good
	bad.Design = "crossover"
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("bad design should fail, got %v", err)
	}

	bad = good
	bad.Variability.InterSystemSD = -2
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("negative variability should fail, got %v", err)
	}

	bad = good
	bad.Effect = AbsoluteEffect(0)
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("zero effect should fail, got %v", err)
	}

	bad = good
	bad.PairedVariance = "double"
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("bad paired-variance mode should fail, got %v", err)
	}
}

func TestBiomarker_Validate(t *testing.T) {
	good := Biomarker{
		Key:         "stenosis_severity",
		Name:        "Stenosis severity (%)",
		Resolution:  ResolutionStandard,
		Variability: VariabilityModel{BiologicalSD: 11.6, InterSystemSD: 2.4},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid biomarker rejected: %v", err)
	}

	bad := good
	bad.Key = "  "
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("blank key should fail, got %v", err)
	}

	bad = good
	bad.Resolution = "micro"
	if err := bad.Validate(); !core.IsInvalidArgument(err) {
		t.Errorf("unknown resolution should fail, got %v", err)
	}
}

func TestAgreementSummary_Variability(t *testing.T) {
	s := AgreementSummary{BetweenSubjectSD: 11.6, DiffSD: 2.4}
	v := s.Variability()
	if v.BiologicalSD != 11.6 || v.InterSystemSD != 2.4 {
		t.Errorf("Variability() = %+v, want biological 11.6 / intersystem 2.4", v)
	}
}
