package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/hupe1980/corrmin/internal/manifest"
	"github.com/hupe1980/corrmin/model"
)

// Selection names the determinant buckets and segments searched for one
// pair of phases.
type Selection struct {
	Bound       int
	RefDet      int
	DefDet      int
	RefSegments []string
	DefSegments []string
}

// Determinants returns the reference and deformed determinants for phases
// holding phaseRef and phaseDef formula units per primitive cell.
//
// When one count divides the other only the smaller phase is enlarged and
// the other keeps its cell (determinant 0, the identity sentinel).
// Otherwise both are enlarged so each supercell holds phaseRef·phaseDef
// formula units.
func Determinants(phaseRef, phaseDef int) (refDet, defDet int, err error) {
	if phaseRef <= 0 || phaseDef <= 0 {
		return 0, 0, fmt.Errorf("%w: phases %d/%d must be positive", ErrInvalidPhase, phaseRef, phaseDef)
	}

	switch {
	case phaseRef%phaseDef == 0:
		refDet, defDet = model.SentinelDeterminant, phaseRef/phaseDef
	case phaseDef%phaseRef == 0:
		refDet, defDet = phaseDef/phaseRef, model.SentinelDeterminant
	default:
		refDet, defDet = phaseDef, phaseRef
	}

	if refDet > model.MaxDeterminant || defDet > model.MaxDeterminant {
		return 0, 0, fmt.Errorf("%w: phases %d/%d need determinants %d/%d (max %d)",
			ErrUnsupportedDeterminant, phaseRef, phaseDef, refDet, defDet, model.MaxDeterminant)
	}
	return refDet, defDet, nil
}

// Select resolves the segments to search for the given bound and phases.
// The catalog for bound must be complete.
func (c *Catalog) Select(ctx context.Context, bound, phaseRef, phaseDef int) (Selection, error) {
	refDet, defDet, err := Determinants(phaseRef, phaseDef)
	if err != nil {
		return Selection{}, err
	}
	if _, err := c.Manifest(ctx, bound); err != nil {
		return Selection{}, err
	}

	sel := Selection{Bound: bound, RefDet: refDet, DefDet: defDet}
	if sel.RefSegments, err = c.segments(ctx, bound, refDet); err != nil {
		return Selection{}, err
	}
	if sel.DefSegments, err = c.segments(ctx, bound, defDet); err != nil {
		return Selection{}, err
	}

	c.logger.Debug("candidates selected",
		"bound", bound,
		"ref_det", refDet,
		"def_det", defDet,
		"ref_segments", len(sel.RefSegments),
		"def_segments", len(sel.DefSegments),
	)
	return sel, nil
}

// segments lists the segment blobs of one bucket in index order.
// Segment indices are zero-padded, so lexical order is index order.
func (c *Catalog) segments(ctx context.Context, bound, det int) ([]string, error) {
	names, err := c.store.List(ctx, manifest.SegmentPrefix(bound, det))
	if err != nil {
		return nil, fmt.Errorf("list bucket det%d: %w", det, err)
	}
	sort.Strings(names)
	return names, nil
}
