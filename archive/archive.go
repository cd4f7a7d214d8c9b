// Package archive stores the records of finished searches.
//
// Record identifiers are assigned by the store on Append, grow
// monotonically and are never reused, so an archived record is never
// overwritten by a later run.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
)

// ErrNotFound is returned by Get for unknown record IDs.
var ErrNotFound = errors.New("archive: record not found")

// Record is the archived output of one search.
type Record struct {
	ID        uint64    `json:"id" msgpack:"id"`
	RunID     string    `json:"run_id" msgpack:"run_id"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`

	Bound    int `json:"bound" msgpack:"bound"`
	PhaseRef int `json:"phase_ref" msgpack:"phase_ref"`
	PhaseDef int `json:"phase_def" msgpack:"phase_def"`
	RefDet   int `json:"ref_det" msgpack:"ref_det"`
	DefDet   int `json:"def_det" msgpack:"def_det"`

	Reference lattice.Cell `json:"reference" msgpack:"reference"`
	Deformed  lattice.Cell `json:"deformed" msgpack:"deformed"`

	// Results holds the retained pairs ordered by ascending distance.
	Results []model.Result `json:"results" msgpack:"results"`
	// Pairs is the number of evaluated pairs.
	Pairs int64 `json:"pairs" msgpack:"pairs"`
	// Duration is the search wall time.
	Duration time.Duration `json:"duration" msgpack:"duration"`

	// TransformedRef and TransformedDef are the cells obtained by applying
	// the best pair to the input lattices.
	TransformedRef lattice.Cell `json:"transformed_ref" msgpack:"transformed_ref"`
	TransformedDef lattice.Cell `json:"transformed_def" msgpack:"transformed_def"`
}

// Best returns the lowest-distance result.
func (r *Record) Best() (model.Result, bool) {
	if len(r.Results) == 0 {
		return model.Result{}, false
	}
	return r.Results[0], true
}

// Store persists records.
type Store interface {
	// Append assigns the next ID to rec, stores it and returns the ID.
	Append(ctx context.Context, rec *Record) (uint64, error)
	// Get loads a record by ID.
	Get(ctx context.Context, id uint64) (*Record, error)
	// List returns all records ordered by ID.
	List(ctx context.Context) ([]*Record, error)
	// Close releases resources held by the store.
	Close() error
}
