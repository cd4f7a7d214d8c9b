package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/dustin/go-humanize"
	"github.com/hupe1980/corrmin/internal/manifest"
	"github.com/hupe1980/corrmin/internal/resource"
	"github.com/hupe1980/corrmin/internal/segment"
	"github.com/hupe1980/corrmin/model"
)

// bucket accumulates the matrices of one determinant until a segment is full.
type bucket struct {
	det     int
	pending []model.Matrix
	next    int // index of the next segment
	seen    *roaring64.Bitmap
}

func newBucket(det, capacity int) *bucket {
	return &bucket{
		det:     det,
		pending: make([]model.Matrix, 0, capacity),
		seen:    roaring64.New(),
	}
}

// Generate builds the catalog for bound and returns its manifest.
// An existing completed catalog is returned untouched. Leftovers of an
// interrupted generation are removed before the catalog is rebuilt.
func (c *Catalog) Generate(ctx context.Context, bound int) (*manifest.Manifest, error) {
	if err := ValidateBound(bound); err != nil {
		return nil, err
	}

	m, err := c.manifests.Load(ctx, bound)
	if err == nil {
		c.logger.Debug("catalog already complete", "bound", bound, "matrices", m.Total())
		return m, nil
	}
	if !isIncomplete(err) {
		return nil, err
	}
	if !errors.Is(err, manifest.ErrNotFound) {
		c.logger.Warn("discarding unreadable manifest", "bound", bound, "error", err)
	}

	if err := c.purge(ctx, bound); err != nil {
		return nil, err
	}

	reserve := int64(c.capacity) * model.MatrixBytes * model.MaxDeterminant
	if err := c.rc.AcquireMemory(reserve); err != nil {
		return nil, fmt.Errorf("reserve %s of %s for segment buffers: %w",
			humanize.IBytes(uint64(reserve)), humanize.IBytes(uint64(c.rc.MemoryLimit())), err)
	}
	defer c.rc.ReleaseMemory(reserve)

	start := time.Now()
	g := &generator{
		Catalog:  c,
		bound:    bound,
		manifest: manifest.New(bound, c.capacity, c.compression.String()),
	}
	if err := g.run(ctx); err != nil {
		return nil, err
	}

	if err := c.manifests.Save(ctx, g.manifest); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}

	c.logger.Info("catalog generated",
		"bound", bound,
		"matrices", g.manifest.Total(),
		"segments", g.segments,
		"size", humanize.IBytes(uint64(g.written)),
		"duration", time.Since(start),
	)
	return g.manifest, nil
}

// purge deletes every blob under the catalog directory of bound.
func (c *Catalog) purge(ctx context.Context, bound int) error {
	c.cache.InvalidatePrefix(manifest.Dir(bound) + "/")

	names, err := c.store.List(ctx, manifest.Dir(bound)+"/")
	if err != nil {
		return fmt.Errorf("list catalog %s: %w", manifest.Dir(bound), err)
	}
	if len(names) == 0 {
		return nil
	}

	c.logger.Warn("removing incomplete catalog", "bound", bound, "blobs", len(names))

	// The manifest goes first so a half-purged catalog never loads as complete.
	if err := c.manifests.Delete(ctx, bound); err != nil {
		return fmt.Errorf("delete manifest %s: %w", manifest.Path(bound), err)
	}
	for _, name := range names {
		if name == manifest.Path(bound) {
			continue
		}
		if err := c.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	return nil
}

type generator struct {
	*Catalog
	bound    int
	manifest *manifest.Manifest
	segments int
	written  int64
}

func (g *generator) run(ctx context.Context) error {
	if err := g.flush(ctx, model.SentinelDeterminant, 0, []model.Matrix{model.Identity()}); err != nil {
		return err
	}

	var buckets [model.MaxDeterminant + 1]*bucket
	for det := 1; det <= model.MaxDeterminant; det++ {
		buckets[det] = newBucket(det, g.capacity)
	}
	if err := g.add(ctx, buckets[1], model.Identity()); err != nil {
		return err
	}

	rows := Rows(g.bound)
	for _, r1 := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, r2 := range rows {
			c := cross(r1, r2)
			if c == ([3]int{}) {
				continue
			}
			for _, r3 := range rows {
				det, ok := acceptDet(float64(c[0]*int(r3[0]) + c[1]*int(r3[1]) + c[2]*int(r3[2])))
				if !ok {
					continue
				}
				if err := g.add(ctx, buckets[det], model.Matrix{r1, r2, r3}); err != nil {
					return err
				}
			}
		}
	}

	for det := 1; det <= model.MaxDeterminant; det++ {
		b := buckets[det]
		if len(b.pending) == 0 {
			continue
		}
		if err := g.flush(ctx, b.det, b.next, b.pending); err != nil {
			return err
		}
		b.pending = b.pending[:0]
		b.next++
	}
	return nil
}

// add appends m to b unless b already holds it, flushing a full segment.
func (g *generator) add(ctx context.Context, b *bucket, m model.Matrix) error {
	if !b.seen.CheckedAdd(m.Key(g.bound)) {
		return nil
	}
	b.pending = append(b.pending, m)
	if len(b.pending) < g.capacity {
		return nil
	}
	if err := g.flush(ctx, b.det, b.next, b.pending); err != nil {
		return err
	}
	b.pending = b.pending[:0]
	b.next++
	return nil
}

func (g *generator) flush(ctx context.Context, det, seg int, matrices []model.Matrix) error {
	data, err := segment.Encode(matrices, g.compression)
	if err != nil {
		return err
	}

	name := manifest.SegmentName(g.bound, det, seg)
	w, err := g.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create segment %s: %w", name, err)
	}
	_, werr := io.Copy(resource.NewRateLimitedWriter(ctx, w, g.rc), bytes.NewReader(data))
	if err := errors.Join(werr, w.Close()); err != nil {
		return fmt.Errorf("write segment %s: %w", name, err)
	}

	g.manifest.AddSegment(det, name, len(matrices))
	g.segments++
	g.written += int64(len(data))

	g.logger.Debug("segment flushed",
		"name", name,
		"matrices", len(matrices),
		"size", humanize.IBytes(uint64(len(data))),
	)
	return nil
}

// acceptDet returns the integer determinant if d is within DetTolerance of
// an integer in 1..MaxDeterminant.
func acceptDet(d float64) (int, bool) {
	r := math.Round(d)
	if math.Abs(d-r) > DetTolerance || r < 1 || r > model.MaxDeterminant {
		return 0, false
	}
	return int(r), true
}

// Rows returns every integer row vector with entries in [-bound, bound], in
// lexicographic order.
func Rows(bound int) [][3]int8 {
	n := 2*bound + 1
	rows := make([][3]int8, 0, n*n*n)
	for a := -bound; a <= bound; a++ {
		for b := -bound; b <= bound; b++ {
			for c := -bound; c <= bound; c++ {
				rows = append(rows, [3]int8{int8(a), int8(b), int8(c)})
			}
		}
	}
	return rows
}

func cross(a, b [3]int8) [3]int {
	return [3]int{
		int(a[1])*int(b[2]) - int(a[2])*int(b[1]),
		int(a[2])*int(b[0]) - int(a[0])*int(b[2]),
		int(a[0])*int(b[1]) - int(a[1])*int(b[0]),
	}
}
