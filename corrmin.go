package corrmin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/internal/catalog"
	"github.com/hupe1980/corrmin/internal/manifest"
	"github.com/hupe1980/corrmin/internal/resource"
	"github.com/hupe1980/corrmin/internal/search"
	"github.com/hupe1980/corrmin/internal/segment"
	"github.com/hupe1980/corrmin/lattice"
	"github.com/hupe1980/corrmin/model"
)

// MaxBound is the largest enumeration bound a catalog supports.
const MaxBound = catalog.MaxBound

// CatalogInfo describes a complete catalog: its segments and the number of
// matrices in every determinant bucket.
type CatalogInfo = manifest.Manifest

// Query describes one search.
type Query struct {
	// Reference and Deformed are the unit cells of the two phases.
	Reference lattice.Cell
	Deformed  lattice.Cell

	// PhaseRef and PhaseDef are the formula units per primitive cell.
	PhaseRef int
	PhaseDef int

	// Bound is the largest absolute matrix entry enumerated. If 0 it is
	// derived from the cells with lattice.Bound.
	Bound int
}

// Finder searches correspondence-matrix catalogs kept in a blob store.
//
// A Finder is safe for sequential use. Searches themselves are
// single-threaded.
type Finder struct {
	catalog *catalog.Catalog
	archive archive.Store
	metrics MetricsCollector
	logger  *Logger
	k       int
}

// New creates a Finder whose catalogs live in store.
func New(store blobstore.BlobStore, optFns ...Option) (*Finder, error) {
	if store == nil {
		return nil, errors.New("blob store is required")
	}

	o := applyOptions(optFns)
	if o.k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidK, o.k)
	}
	if o.segmentCapacity < 0 {
		return nil, fmt.Errorf("invalid segment capacity: %d", o.segmentCapacity)
	}

	comp, err := segment.ParseCompression(o.compression)
	if err != nil {
		return nil, err
	}

	catOpts := []catalog.Option{
		catalog.WithCapacity(o.segmentCapacity),
		catalog.WithCompression(comp),
		catalog.WithSegmentCache(o.cacheBytes),
		catalog.WithLogger(o.logger.Logger),
	}
	if o.resources != nil {
		catOpts = append(catOpts, catalog.WithResourceController(resource.NewController(*o.resources)))
	}

	return &Finder{
		catalog: catalog.New(store, catOpts...),
		archive: o.archive,
		metrics: o.metricsCollector,
		logger:  o.logger,
		k:       o.k,
	}, nil
}

// Generate builds the catalog for bound unless a complete one exists.
// An interrupted earlier generation is discarded and rebuilt.
func (f *Finder) Generate(ctx context.Context, bound int) (*CatalogInfo, error) {
	m, err := f.generate(ctx, bound)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (f *Finder) generate(ctx context.Context, bound int) (*manifest.Manifest, error) {
	start := time.Now()
	m, err := f.catalog.Generate(ctx, bound)

	var total int64
	if m != nil {
		total = int64(m.Total())
	}
	f.metrics.RecordGenerate(bound, total, time.Since(start), err)
	f.logger.LogGenerate(ctx, bound, total, time.Since(start), err)

	return m, err
}

// Catalog returns the description of the complete catalog for bound.
// It returns ErrCatalogNotFound if the catalog is missing or incomplete.
func (f *Finder) Catalog(ctx context.Context, bound int) (*CatalogInfo, error) {
	m, err := f.catalog.Manifest(ctx, bound)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// Search finds the k correspondence-matrix pairs with the lowest distance
// between the reference and deformed lattices of q. The catalog for the
// bound is generated first if it does not exist.
//
// The returned record carries the cells the best pair produces. If an
// archive is configured the record is appended and its ID set.
func (f *Finder) Search(ctx context.Context, q Query) (*archive.Record, error) {
	start := time.Now()
	rec, err := f.search(ctx, q)
	if err != nil {
		err = q.translateError(err)
		f.metrics.RecordSearch(f.k, 0, time.Since(start), err)
		f.logger.LogSearch(ctx, f.k, 0, 0, time.Since(start), err)
		return nil, err
	}

	best, _ := rec.Best()
	f.metrics.RecordSearch(f.k, rec.Pairs, rec.Duration, nil)
	f.logger.LogSearch(ctx, f.k, rec.Pairs, best.Distance, rec.Duration, nil)

	if f.archive != nil {
		archiveStart := time.Now()
		id, err := f.archive.Append(ctx, rec)
		f.metrics.RecordArchive(time.Since(archiveStart), err)
		f.logger.WithRunID(rec.RunID).LogArchive(ctx, id, err)
		if err != nil {
			return rec, fmt.Errorf("archive: %w", err)
		}
		rec.ID = id
	}

	return rec, nil
}

func (f *Finder) search(ctx context.Context, q Query) (*archive.Record, error) {
	refDet, defDet, err := catalog.Determinants(q.PhaseRef, q.PhaseDef)
	if err != nil {
		return nil, err
	}

	ref, err := lattice.FromCell(q.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	def, err := lattice.FromCell(q.Deformed)
	if err != nil {
		return nil, fmt.Errorf("deformed: %w", err)
	}

	bound := q.Bound
	if bound == 0 {
		bound = lattice.Bound(q.Reference, q.Deformed)
	}
	if err := catalog.ValidateBound(bound); err != nil {
		return nil, err
	}

	if _, err := f.generate(ctx, bound); err != nil {
		return nil, err
	}

	sel, err := f.catalog.Select(ctx, bound, q.PhaseRef, q.PhaseDef)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := f.logger.WithRunID(runID)
	out, err := search.Run(ctx, search.Params{
		Reader:      f.catalog,
		Ref:         ref,
		Def:         def,
		RefSegments: sel.RefSegments,
		DefSegments: sel.DefSegments,
		K:           f.k,
		Logger:      logger.Logger,
	})
	if err != nil {
		return nil, err
	}
	if cs := f.catalog.CacheStats(); cs.Hits+cs.Misses > 0 {
		logger.LogSegmentCache(ctx, cs.Hits, cs.Misses, cs.Bytes)
	}

	best := out.Best()
	return &archive.Record{
		RunID:          runID,
		CreatedAt:      time.Now().UTC(),
		Bound:          bound,
		PhaseRef:       q.PhaseRef,
		PhaseDef:       q.PhaseDef,
		RefDet:         refDet,
		DefDet:         defDet,
		Reference:      q.Reference,
		Deformed:       q.Deformed,
		Results:        out.Results,
		Pairs:          out.Pairs,
		Duration:       out.Duration,
		TransformedRef: transform(ref, best.Ref),
		TransformedDef: transform(def, best.Def),
	}, nil
}

// Close releases the archive, if one is configured.
func (f *Finder) Close() error {
	if f.archive == nil {
		return nil
	}
	return f.archive.Close()
}

func (q Query) translateError(err error) error {
	if errors.Is(err, catalog.ErrUnsupportedDeterminant) {
		return &ErrUnsupportedDeterminant{PhaseRef: q.PhaseRef, PhaseDef: q.PhaseDef, cause: err}
	}
	return translateError(err)
}

func transform(l lattice.Lattice, m model.Matrix) lattice.Cell {
	return lattice.Parameters(lattice.Apply(l, m))
}
