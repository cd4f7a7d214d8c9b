// Package search runs the exhaustive correspondence-pair search over the
// segments chosen by catalog selection.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/corrmin/distance"
	"github.com/hupe1980/corrmin/internal/queue"
	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
)

// ErrNoCandidates is returned when the selected segments hold no matrices.
var ErrNoCandidates = errors.New("search: no candidate pairs")

// SegmentReader loads one catalog segment, appending to dst[:0].
type SegmentReader interface {
	ReadSegment(ctx context.Context, name string, dst []model.Matrix) ([]model.Matrix, error)
}

// Params describes one search.
type Params struct {
	Reader SegmentReader

	Ref lattice.Lattice
	Def lattice.Lattice

	RefSegments []string
	DefSegments []string

	// K is the number of results kept. Defaults to 3.
	K int

	// Observer, if set, receives every evaluated pair.
	Observer func(model.Result)

	Logger *slog.Logger
}

// Outcome is the result of a search.
type Outcome struct {
	// Results holds at most K pairs ordered by ascending distance.
	Results []model.Result
	// Pairs is the number of evaluated pairs.
	Pairs int64
	// Duration is the wall time of the search.
	Duration time.Duration
}

// Best returns the lowest-distance pair.
func (o *Outcome) Best() model.Result {
	return o.Results[0]
}

// Run evaluates every pair of matrices from the reference and deformed
// segments. One segment of each side is held in memory at a time.
// Cancellation is checked between segments. A distance error aborts the run.
func Run(ctx context.Context, p Params) (*Outcome, error) {
	if p.K <= 0 {
		p.K = 3
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	start := time.Now()
	top := queue.NewTopK(p.K)
	engine := distance.NewEngine()

	var (
		refs, defs []model.Matrix
		pairs      int64
		err        error
	)

	for _, refName := range p.RefSegments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if refs, err = p.Reader.ReadSegment(ctx, refName, refs); err != nil {
			return nil, err
		}

		for _, defName := range p.DefSegments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if defs, err = p.Reader.ReadSegment(ctx, defName, defs); err != nil {
				return nil, err
			}

			for _, pRef := range refs {
				if err := engine.Prepare(p.Ref, pRef); err != nil {
					return nil, err
				}
				for _, pDef := range defs {
					r, err := engine.Eval(p.Def, pDef)
					if err != nil {
						return nil, err
					}
					pairs++
					if p.Observer != nil {
						p.Observer(r)
					}
					top.Offer(r)
				}
			}
		}

		logger.Debug("reference segment searched",
			"segment", refName,
			"pairs", pairs,
			"max", top.Max(),
		)
	}

	if pairs == 0 {
		return nil, fmt.Errorf("%w: %d reference and %d deformed segments", ErrNoCandidates, len(p.RefSegments), len(p.DefSegments))
	}

	return &Outcome{
		Results:  top.Results(),
		Pairs:    pairs,
		Duration: time.Since(start),
	}, nil
}
