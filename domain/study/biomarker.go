package study

import (
	"fmt"
	"strings"

	"gopower/domain/core"
)

// Resolution identifies a scanner acquisition tier.
type Resolution string

const (
	ResolutionStandard  Resolution = "standard"
	ResolutionUltraHigh Resolution = "uhr"
)

// ParseResolution normalizes a resolution tag
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(strings.ToLower(strings.TrimSpace(s))) {
	case ResolutionStandard:
		return ResolutionStandard, nil
	case ResolutionUltraHigh:
		return ResolutionUltraHigh, nil
	case "":
		return "", core.NewInvalidArgumentError("resolution", "must be provided")
	default:
		return "", core.NewInvalidArgumentError("resolution", fmt.Sprintf("unknown resolution %q", s))
	}
}

// Label returns the display name of the tier
func (r Resolution) Label() string {
	switch r {
	case ResolutionStandard:
		return "Standard resolution (0.4 mm)"
	case ResolutionUltraHigh:
		return "Ultrahigh-resolution (0.2 mm)"
	default:
		return string(r)
	}
}

// Biomarker is one catalog entry: a measurable imaging quantity with its
// published variability components for a given acquisition tier.
type Biomarker struct {
	Key         core.BiomarkerKey `json:"key"`
	Name        string            `json:"name"` // display name including unit, e.g. "Minimal lumen area (mm²)"
	Resolution  Resolution        `json:"resolution"`
	Variability VariabilityModel  `json:"variability"`

	// PublishedTotalSD is the source study's (rounded) total. Kept for
	// display; computation always derives the total from the components.
	PublishedTotalSD float64 `json:"published_total_sd,omitempty"`
	Source           string  `json:"source,omitempty"` // provenance note for the SD values
}

// Validate checks the entry is usable as calculator input
func (b Biomarker) Validate() error {
	if strings.TrimSpace(string(b.Key)) == "" {
		return core.NewInvalidArgumentError("biomarker.key", "must not be empty")
	}
	if strings.TrimSpace(b.Name) == "" {
		return core.NewInvalidArgumentError("biomarker.name", "must not be empty")
	}
	if _, err := ParseResolution(string(b.Resolution)); err != nil {
		return err
	}
	return b.Variability.Validate()
}
