package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/internal/cache"
	"github.com/hupe1980/corrmin/internal/manifest"
	"github.com/hupe1980/corrmin/internal/resource"
	"github.com/hupe1980/corrmin/internal/segment"
	"github.com/hupe1980/corrmin/model"
)

const (
	// DefaultCapacity is the default maximum number of matrices per segment.
	DefaultCapacity = 100000

	// MaxBound is the largest supported enumeration bound. Entries are stored
	// as int8 and keys as base-(2b+1) uint64 numbers, and 127^9 < 2^64.
	MaxBound = 63

	// DetTolerance is the allowed distance of a determinant from an integer.
	DetTolerance = 1e-6
)

// Catalog reads and writes matrix catalogs in a blob store.
type Catalog struct {
	store       blobstore.BlobStore
	manifests   *manifest.Store
	capacity    int
	compression segment.Compression
	rc          *resource.Controller
	cacheBytes  int64
	cache       *cache.LRU
	logger      *slog.Logger
}

// Option defines a configuration option for the Catalog.
type Option func(*Catalog)

// WithCapacity sets the maximum number of matrices per segment.
func WithCapacity(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCompression sets the segment payload compression.
func WithCompression(comp segment.Compression) Option {
	return func(c *Catalog) {
		c.compression = comp
	}
}

// WithResourceController sets the memory and IO budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *Catalog) {
		c.rc = rc
	}
}

// WithSegmentCache keeps up to bytes of recently read segment blobs in
// memory. Only blobs that are not memory mapped are cached.
func WithSegmentCache(bytes int64) Option {
	return func(c *Catalog) {
		c.cacheBytes = bytes
	}
}

// WithLogger sets the logger for the catalog.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Catalog backed by store.
func New(store blobstore.BlobStore, opts ...Option) *Catalog {
	c := &Catalog{
		store:       store,
		manifests:   manifest.NewStore(store, nil),
		capacity:    DefaultCapacity,
		compression: segment.CompressionLZ4,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheBytes > 0 {
		c.cache = cache.NewLRU(c.cacheBytes, c.rc)
	}
	return c
}

// ValidateBound reports whether bound can be enumerated.
func ValidateBound(bound int) error {
	if bound < 1 || bound > MaxBound {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidBound, bound, MaxBound)
	}
	return nil
}

// Exists reports whether a completed catalog exists for bound.
func (c *Catalog) Exists(ctx context.Context, bound int) (bool, error) {
	if err := ValidateBound(bound); err != nil {
		return false, err
	}
	_, err := c.manifests.Load(ctx, bound)
	switch {
	case err == nil:
		return true, nil
	case isIncomplete(err):
		return false, nil
	default:
		return false, err
	}
}

// Manifest returns the manifest of the completed catalog for bound.
func (c *Catalog) Manifest(ctx context.Context, bound int) (*manifest.Manifest, error) {
	if err := ValidateBound(bound); err != nil {
		return nil, err
	}
	m, err := c.manifests.Load(ctx, bound)
	if err != nil {
		if isIncomplete(err) {
			return nil, fmt.Errorf("%w: bound %d: %v", ErrCatalogNotFound, bound, err)
		}
		return nil, err
	}
	return m, nil
}

// ReadSegment loads and decodes the named segment, appending to dst[:0].
func (c *Catalog) ReadSegment(ctx context.Context, name string, dst []model.Matrix) ([]model.Matrix, error) {
	data, ok := c.cache.Get(name)
	if !ok {
		var (
			b   blobstore.Blob
			err error
		)
		if b, err = c.store.Open(ctx, name); err != nil {
			return nil, fmt.Errorf("open segment %s: %w", name, err)
		}
		defer b.Close()

		if m, ok := b.(blobstore.Mappable); ok {
			if err := c.rc.AcquireIO(ctx, int(b.Size())); err != nil {
				return nil, err
			}
			data, err = m.Bytes()
		} else if data, err = c.fetch(ctx, b); err == nil {
			c.cache.Set(name, data)
		}
		if err != nil {
			return nil, fmt.Errorf("read segment %s: %w", name, err)
		}
	}

	out, err := segment.DecodeInto(dst, data)
	if err != nil {
		return nil, fmt.Errorf("decode segment %s: %w", name, err)
	}
	return out, nil
}

// CacheStats describes the segment cache.
type CacheStats struct {
	Hits     int64
	Misses   int64
	Bytes    int64
	Segments int
}

// CacheStats returns the segment cache counters. It is zero when no cache
// is configured.
func (c *Catalog) CacheStats() CacheStats {
	hits, misses := c.cache.Stats()
	return CacheStats{
		Hits:     hits,
		Misses:   misses,
		Bytes:    c.cache.Size(),
		Segments: c.cache.Len(),
	}
}

func isIncomplete(err error) bool {
	return errors.Is(err, manifest.ErrNotFound) ||
		errors.Is(err, manifest.ErrCorrupt) ||
		errors.Is(err, manifest.ErrIncompatibleVersion)
}

func (c *Catalog) fetch(ctx context.Context, b blobstore.Blob) ([]byte, error) {
	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, b.Size())
	if _, err := io.ReadFull(resource.NewRateLimitedReader(ctx, r, c.rc), data); err != nil {
		return nil, err
	}
	return data, nil
}
