package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SweepID    ID
	EstimateID ID
)

// String conversions for domain IDs
func (id SweepID) String() string    { return ID(id).String() }
func (id EstimateID) String() string { return ID(id).String() }

// BiomarkerKey is the natural key of a catalog entry (stable slug, not a UUID)
type BiomarkerKey string

func (k BiomarkerKey) String() string { return string(k) }

// ParseBiomarkerKey parses a string into a BiomarkerKey
func ParseBiomarkerKey(s string) (BiomarkerKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("biomarker key cannot be empty")
	}
	return BiomarkerKey(trimmed), nil
}
