package app

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// StudyService answers single sample-size questions and power curves.
// Callers either supply variability components directly or name a catalog
// biomarker; naming one replaces the request's variability with the
// catalog entry's published components.
type StudyService struct {
	calculator ports.SampleSizeCalculator
	catalog    ports.BiomarkerCatalog
}

// NewStudyService creates a study service
func NewStudyService(calculator ports.SampleSizeCalculator, catalog ports.BiomarkerCatalog) *StudyService {
	return &StudyService{
		calculator: calculator,
		catalog:    catalog,
	}
}

// SolveCommand defines the inputs for one sample-size computation
type SolveCommand struct {
	Request study.Request

	// Resolution and Biomarker select a catalog entry whose variability
	// overrides Request.Variability. Both empty means the request's own
	// components are used as given.
	Resolution study.Resolution
	Biomarker  core.BiomarkerKey
}

// SolveOutcome is the computed answer plus the catalog entry it drew from,
// when one was named.
type SolveOutcome struct {
	Result    study.Result     `json:"result"`
	Request   study.Request    `json:"request"` // request as computed, after any catalog override
	Biomarker *study.Biomarker `json:"biomarker,omitempty"`
}

// Solve computes the required sample size for one study question
func (s *StudyService) Solve(ctx context.Context, cmd SolveCommand) (*SolveOutcome, error) {
	req, marker, err := s.resolveRequest(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result, err := s.calculator.RequiredN(req)
	if err != nil {
		return nil, err
	}

	return &SolveOutcome{
		Result:    result,
		Request:   req,
		Biomarker: marker,
	}, nil
}

// CurveRange describes an inclusive, evenly spaced span of effect values.
type CurveRange struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Points int     `json:"points"`
}

// Expand materializes the range. Endpoints are included; spacing is uniform.
func (r CurveRange) Expand() ([]float64, error) {
	if r.Points < 2 {
		return nil, core.NewInvalidArgumentError("range.points", fmt.Sprintf("need at least 2 points, got %d", r.Points))
	}
	if !(r.From > 0) || math.IsInf(r.From, 0) {
		return nil, core.NewInvalidArgumentError("range.from", fmt.Sprintf("must be a strictly positive finite value, got %v", r.From))
	}
	if !(r.To > r.From) || math.IsInf(r.To, 0) {
		return nil, core.NewInvalidArgumentError("range.to", fmt.Sprintf("must be a finite value above range.from, got %v", r.To))
	}
	return floats.Span(make([]float64, r.Points), r.From, r.To), nil
}

// CurveCommand defines the inputs for a sample-size curve. Explicit Deltas
// win over Range; one of the two must be present. Each delta is interpreted
// in the request's effect kind, so a percent request sweeps percentages.
type CurveCommand struct {
	SolveCommand
	Deltas []float64
	Range  *CurveRange
}

// CurveOutcome is the evaluated curve.
type CurveOutcome struct {
	Points    []study.CurvePoint `json:"points"`
	Request   study.Request      `json:"request"`
	Biomarker *study.Biomarker   `json:"biomarker,omitempty"`
}

// Curve evaluates the required sample size over a span of effect values.
// Every point goes through the same rounding as Solve, so a curve point and
// a direct Solve at the same delta always agree.
func (s *StudyService) Curve(ctx context.Context, cmd CurveCommand) (*CurveOutcome, error) {
	deltas := cmd.Deltas
	if len(deltas) == 0 {
		if cmd.Range == nil {
			return nil, core.NewInvalidArgumentError("curve", "either deltas or range must be provided")
		}
		expanded, err := cmd.Range.Expand()
		if err != nil {
			return nil, err
		}
		deltas = expanded
	}

	req, marker, err := s.resolveRequest(ctx, cmd.SolveCommand)
	if err != nil {
		return nil, err
	}

	points, err := s.calculator.Curve(req, deltas)
	if err != nil {
		return nil, err
	}

	return &CurveOutcome{
		Points:    points,
		Request:   req,
		Biomarker: marker,
	}, nil
}

// resolveRequest applies the catalog override when a biomarker is named
func (s *StudyService) resolveRequest(ctx context.Context, cmd SolveCommand) (study.Request, *study.Biomarker, error) {
	req := cmd.Request
	if cmd.Biomarker == "" {
		return req, nil, nil
	}

	if s.catalog == nil {
		return study.Request{}, nil, core.NewInvalidArgumentError("biomarker", "no catalog configured")
	}
	marker, err := s.catalog.Get(ctx, cmd.Resolution, cmd.Biomarker)
	if err != nil {
		return study.Request{}, nil, err
	}

	req.Variability = marker.Variability
	return req, marker, nil
}
