package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// SweepService computes the required sample size for every biomarker of one
// acquisition tier under shared study assumptions. The detectable difference
// is expressed as a fraction of each marker's own design deviation, so rows
// stay comparable across markers measured in different units.
type SweepService struct {
	calculator ports.SampleSizeCalculator
	catalog    ports.BiomarkerCatalog
	workers    *semaphore.Weighted
}

// NewSweepService creates a sweep service with the given worker bound
func NewSweepService(calculator ports.SampleSizeCalculator, catalog ports.BiomarkerCatalog, concurrency int64) *SweepService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SweepService{
		calculator: calculator,
		catalog:    catalog,
		workers:    semaphore.NewWeighted(concurrency),
	}
}

// SweepRequest fixes the shared assumptions of one catalog sweep
type SweepRequest struct {
	Resolution   study.Resolution       `json:"resolution"`
	Significance study.SignificanceSpec `json:"significance"`
	Design       study.Design           `json:"design"`

	// RelativeEffect is the detectable difference as a fraction of each
	// marker's design deviation (0.5 means half an SD).
	RelativeEffect float64 `json:"relative_effect"`

	PairedVariance study.PairedVariance `json:"paired_variance,omitempty"`
}

// Validate checks the shared assumptions before any marker is computed
func (r SweepRequest) Validate() error {
	if _, err := study.ParseResolution(string(r.Resolution)); err != nil {
		return err
	}
	if err := r.Significance.Validate(); err != nil {
		return err
	}
	if err := r.Design.Validate(); err != nil {
		return err
	}
	if !(r.RelativeEffect > 0) || math.IsInf(r.RelativeEffect, 0) {
		return core.NewInvalidArgumentError("relative_effect",
			fmt.Sprintf("must be a strictly positive finite fraction, got %v", r.RelativeEffect))
	}
	if _, err := study.ParsePairedVariance(string(r.PairedVariance)); err != nil {
		return err
	}
	return nil
}

// SweepRow is one marker's answer within a sweep.
type SweepRow struct {
	Key    core.BiomarkerKey `json:"key"`
	Name   string            `json:"name"`
	Delta  float64           `json:"delta"` // resolved detectable difference, native units
	Result study.Result      `json:"result"`
}

// SweepOutcome contains the complete output of a catalog sweep
type SweepOutcome struct {
	SweepID    core.SweepID     `json:"sweep_id"`
	Resolution study.Resolution `json:"resolution"`
	StartedAt  core.Timestamp   `json:"started_at"`
	Rows       []SweepRow       `json:"rows"`
	RuntimeMs  int64            `json:"runtime_ms"`
}

// Run sweeps every marker of the requested tier. Markers are computed
// concurrently under the worker bound; rows come back ordered by key
// regardless of completion order. The first failure aborts the sweep.
func (s *SweepService) Run(ctx context.Context, req SweepRequest) (*SweepOutcome, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	markers, err := s.catalog.List(ctx, req.Resolution)
	if err != nil {
		return nil, err
	}

	rows := make([]SweepRow, len(markers))
	errs := make([]error, len(markers))

	var wg sync.WaitGroup
	for i, marker := range markers {
		wg.Add(1)
		go func(i int, marker study.Biomarker) {
			defer wg.Done()

			if err := s.workers.Acquire(ctx, 1); err != nil {
				errs[i] = err
				return
			}
			defer s.workers.Release(1)

			row, err := s.computeRow(req, marker)
			if err != nil {
				errs[i] = fmt.Errorf("sweep of %s failed: %w", marker.Key, err)
				return
			}
			rows[i] = row
		}(i, marker)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	return &SweepOutcome{
		SweepID:    core.SweepID(core.NewID()),
		Resolution: req.Resolution,
		StartedAt:  core.NewTimestamp(startTime),
		Rows:       rows,
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *SweepService) computeRow(req SweepRequest, marker study.Biomarker) (SweepRow, error) {
	delta := req.RelativeEffect * marker.Variability.SDForDesign(req.Design)

	result, err := s.calculator.RequiredN(study.Request{
		Significance:   req.Significance,
		Design:         req.Design,
		Variability:    marker.Variability,
		Effect:         study.AbsoluteEffect(delta),
		PairedVariance: req.PairedVariance,
	})
	if err != nil {
		return SweepRow{}, err
	}

	return SweepRow{
		Key:    marker.Key,
		Name:   marker.Name,
		Delta:  delta,
		Result: result,
	}, nil
}
