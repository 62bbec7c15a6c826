package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrBiomarkerNotFound = fmt.Errorf("%w: biomarker", ErrNotFound)

	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Data source errors
	ErrDataSource = errors.New("data source failure")
)

// Error constructors with context
func NewNotFoundError(resource string, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, key)
}

func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

func NewDataSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataSource, source, err)
}

// Error checking helpers
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsDataSource(err error) bool {
	return errors.Is(err, ErrDataSource)
}
