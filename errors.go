package corrmin

import (
	"errors"
	"fmt"

	"github.com/hupe1980/corrmin/distance"
	"github.com/hupe1980/corrmin/internal/catalog"
	"github.com/hupe1980/corrmin/internal/search"
	"github.com/hupe1980/corrmin/lattice"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidBound is returned for enumeration bounds outside 1..MaxBound.
	ErrInvalidBound = errors.New("invalid bound")

	// ErrInvalidPhase is returned for non-positive formula-unit counts.
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrInvalidCell is returned when cell parameters do not describe a real cell.
	ErrInvalidCell = errors.New("invalid cell")

	// ErrCatalogNotFound is returned when no complete catalog exists for a bound.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrSingularBasis is returned when a candidate pair produces a singular
	// basis. It aborts the search.
	ErrSingularBasis = errors.New("singular basis")

	// ErrNoCandidates is returned when the selected buckets are empty.
	ErrNoCandidates = errors.New("no candidates")
)

// ErrUnsupportedDeterminant indicates a phase pair that needs a supercell
// larger than the catalog enumerates.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrUnsupportedDeterminant struct {
	PhaseRef int
	PhaseDef int
	cause    error
}

func (e *ErrUnsupportedDeterminant) Error() string {
	return fmt.Sprintf("unsupported determinant for phases %d/%d", e.PhaseRef, e.PhaseDef)
}

func (e *ErrUnsupportedDeterminant) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, catalog.ErrInvalidBound):
		return fmt.Errorf("%w: %w", ErrInvalidBound, err)
	case errors.Is(err, catalog.ErrInvalidPhase):
		return fmt.Errorf("%w: %w", ErrInvalidPhase, err)
	case errors.Is(err, catalog.ErrCatalogNotFound):
		return fmt.Errorf("%w: %w", ErrCatalogNotFound, err)
	case errors.Is(err, distance.ErrSingularBasis):
		return fmt.Errorf("%w: %w", ErrSingularBasis, err)
	case errors.Is(err, lattice.ErrInvalidCell):
		return fmt.Errorf("%w: %w", ErrInvalidCell, err)
	case errors.Is(err, search.ErrNoCandidates):
		return fmt.Errorf("%w: %w", ErrNoCandidates, err)
	}

	return err
}
