// Package catalog provides read-only biomarker variability sources: the
// compiled-in tables, an Excel workbook, and a Postgres repository.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"gopower/domain/core"
	"gopower/domain/study"
	"gopower/ports"
)

// sourceNote records where the compiled-in variability components come from.
const sourceNote = "Intra-individual PCD-CT vs EID-CT comparisons (published and in-review studies)"

// BuiltinCatalog serves the compiled-in variability tables. Contents are
// fixed at construction; List and Get hand out copies, so callers can never
// mutate the tables.
type BuiltinCatalog struct {
	byResolution map[study.Resolution][]study.Biomarker
}

// NewBuiltinCatalog builds the catalog from the compiled-in tables
func NewBuiltinCatalog() *BuiltinCatalog {
	c := &BuiltinCatalog{byResolution: make(map[study.Resolution][]study.Biomarker)}
	for _, b := range builtinEntries() {
		c.byResolution[b.Resolution] = append(c.byResolution[b.Resolution], b)
	}
	for res := range c.byResolution {
		entries := c.byResolution[res]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	}
	return c
}

// Resolutions lists the tiers the tables cover, in stable order
func (c *BuiltinCatalog) Resolutions(ctx context.Context) ([]study.Resolution, error) {
	out := make([]study.Resolution, 0, len(c.byResolution))
	for res := range c.byResolution {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// List returns every entry of one tier, ordered by key
func (c *BuiltinCatalog) List(ctx context.Context, res study.Resolution) ([]study.Biomarker, error) {
	entries, ok := c.byResolution[res]
	if !ok {
		return nil, core.NewNotFoundError("resolution", string(res))
	}
	out := make([]study.Biomarker, len(entries))
	copy(out, entries)
	return out, nil
}

// Get returns a single entry by natural key
func (c *BuiltinCatalog) Get(ctx context.Context, res study.Resolution, key core.BiomarkerKey) (*study.Biomarker, error) {
	entries, ok := c.byResolution[res]
	if !ok {
		return nil, core.NewNotFoundError("resolution", string(res))
	}
	for _, b := range entries {
		if b.Key == key {
			entry := b
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("%w %q in %s tier", core.ErrBiomarkerNotFound, key, res)
}

// All returns every entry across all tiers, ordered by resolution then key.
// Used to seed external catalog stores.
func (c *BuiltinCatalog) All() []study.Biomarker {
	out := builtinEntries()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resolution != out[j].Resolution {
			return out[i].Resolution < out[j].Resolution
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func entry(res study.Resolution, key, name string, bioSD, interSD, publishedTotal float64) study.Biomarker {
	return study.Biomarker{
		Key:        core.BiomarkerKey(key),
		Name:       name,
		Resolution: res,
		Variability: study.VariabilityModel{
			BiologicalSD:  bioSD,
			InterSystemSD: interSD,
		},
		PublishedTotalSD: publishedTotal,
		Source:           sourceNote,
	}
}

// builtinEntries returns the variability tables for both acquisition tiers.
// PublishedTotalSD carries the source study's rounded total; computations
// derive their own total from the components.
func builtinEntries() []study.Biomarker {
	return []study.Biomarker{
		entry(study.ResolutionStandard, "stenosis_severity", "Stenosis severity (%)", 11.6, 2.4, 11.85),
		entry(study.ResolutionStandard, "ct_ffr", "CT-FFR", 0.08, 0.09, 0.12),

		entry(study.ResolutionUltraHigh, "stenosis_severity", "Stenosis severity (%)", 11.6, 10.2, 15.47),
		entry(study.ResolutionUltraHigh, "ct_ffr", "CT-FFR", 0.08, 0.11, 0.14),
		entry(study.ResolutionUltraHigh, "segment_stenosis_score", "Segment stenosis score", 5.93, 3.18, 6.73),
		entry(study.ResolutionUltraHigh, "minimal_lumen_area", "Minimal lumen area (mm²)", 1.89, 1.32, 2.30),
		entry(study.ResolutionUltraHigh, "minimal_lumen_diameter", "Minimal lumen diameter (mm)", 0.25, 0.18, 0.31),
		entry(study.ResolutionUltraHigh, "plaque_burden", "Plaque burden (%)", 10.87, 6.97, 12.97),
		entry(study.ResolutionUltraHigh, "low_density_ncp_volume", "Low-density NCP volume (mm³)", 22.94, 13.58, 26.68),
		entry(study.ResolutionUltraHigh, "total_plaque_volume", "Total plaque volume (mm³)", 45.58, 19.75, 49.81),
		entry(study.ResolutionUltraHigh, "max_plaque_attenuation", "Max plaque attenuation (HU)", 38.47, 18.55, 42.65),
		entry(study.ResolutionUltraHigh, "calcium_blooming", "Calcium blooming (mm)", 0.17, 0.13, 0.21),
		entry(study.ResolutionUltraHigh, "lumen_area", "Lumen area (mm²)", 1.85, 1.00, 2.10),
	}
}

var _ ports.BiomarkerCatalog = (*BuiltinCatalog)(nil)
