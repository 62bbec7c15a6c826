package study

import (
	"fmt"
	"strings"

	"gopower/domain/core"
)

// Design selects the comparison structure of the planned study.
type Design string

const (
	// DesignIndependent compares two distinct groups, each measured on one system.
	DesignIndependent Design = "independent"
	// DesignPaired measures every subject on both systems and analyzes per-subject differences.
	DesignPaired Design = "paired"
)

// ParseDesign normalizes a design tag
func ParseDesign(s string) (Design, error) {
	switch Design(strings.ToLower(strings.TrimSpace(s))) {
	case DesignIndependent:
		return DesignIndependent, nil
	case DesignPaired:
		return DesignPaired, nil
	case "":
		return "", core.NewInvalidArgumentError("design", "must be provided")
	default:
		return "", core.NewInvalidArgumentError("design", fmt.Sprintf("unknown design %q", s))
	}
}

// Validate checks the design tag is one of the supported values
func (d Design) Validate() error {
	_, err := ParseDesign(string(d))
	return err
}

// PairedVariance selects how the paired design scales the difference variance.
type PairedVariance string

const (
	// PairedVarianceCanonical is the paired t-test analogue: a single variance
	// term of the per-subject differences.
	PairedVarianceCanonical PairedVariance = "canonical"
	// PairedVarianceConservative doubles the variance term, mirroring the
	// independent-groups factor. Opt-in alternative mode, never the default.
	PairedVarianceConservative PairedVariance = "conservative"
)

// ParsePairedVariance normalizes a paired-variance mode; empty means canonical
func ParsePairedVariance(s string) (PairedVariance, error) {
	switch PairedVariance(strings.ToLower(strings.TrimSpace(s))) {
	case "", PairedVarianceCanonical:
		return PairedVarianceCanonical, nil
	case PairedVarianceConservative:
		return PairedVarianceConservative, nil
	default:
		return "", core.NewInvalidArgumentError("paired_variance", fmt.Sprintf("unknown mode %q", s))
	}
}
