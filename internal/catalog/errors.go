package catalog

import "errors"

var (
	// ErrInvalidBound is returned for bounds outside 1..MaxBound.
	ErrInvalidBound = errors.New("catalog: invalid bound")

	// ErrInvalidPhase is returned for non-positive formula-unit counts.
	ErrInvalidPhase = errors.New("catalog: invalid phase")

	// ErrUnsupportedDeterminant is returned when a phase pair needs a
	// determinant above model.MaxDeterminant.
	ErrUnsupportedDeterminant = errors.New("catalog: unsupported determinant")

	// ErrCatalogNotFound is returned when no completed catalog exists for a bound.
	ErrCatalogNotFound = errors.New("catalog: not found")
)
