package ports

import (
	"context"

	"gopower/domain/core"
	"gopower/domain/study"
)

// BiomarkerCatalog provides read-only access to the variability tables.
// Catalog contents are inputs to calculations; nothing computed is ever
// written back through this port.
type BiomarkerCatalog interface {
	// Resolutions lists the acquisition tiers the catalog covers.
	Resolutions(ctx context.Context) ([]study.Resolution, error)

	// List returns every entry of one tier, ordered by key.
	List(ctx context.Context, res study.Resolution) ([]study.Biomarker, error)

	// Get returns a single entry or a not-found error.
	Get(ctx context.Context, res study.Resolution, key core.BiomarkerKey) (*study.Biomarker, error)
}
