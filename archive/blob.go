package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/codec"
)

const recordPrefix = "results/record-"

// BlobArchive keeps one blob per record under results/ in a blob store.
// The blob extension names the codec, so records written with different
// codecs can share an archive.
//
// Appends are serialized within one process only. Two processes appending
// to the same store can pick the same ID and one record is lost; use the
// dynamodb or sqlite archive when several runs write concurrently.
type BlobArchive struct {
	store blobstore.BlobStore
	codec codec.Codec
	mu    sync.Mutex
}

var _ Store = (*BlobArchive)(nil)

// NewBlobArchive creates an archive that writes new records with c.
// A nil codec selects codec.Default.
func NewBlobArchive(store blobstore.BlobStore, c codec.Codec) *BlobArchive {
	if c == nil {
		c = codec.Default
	}
	return &BlobArchive{store: store, codec: c}
}

// RecordName returns the blob name of record id encoded with codecName.
func RecordName(id uint64, codecName string) string {
	return fmt.Sprintf("%s%06d.%s", recordPrefix, id, codecName)
}

// parseName splits a record blob name into ID and codec name.
func parseName(name string) (uint64, string, bool) {
	rest, ok := strings.CutPrefix(name, recordPrefix)
	if !ok {
		return 0, "", false
	}
	num, ext, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, "", false
	}
	id, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, ext, true
}

func (a *BlobArchive) index(ctx context.Context) (map[uint64]string, uint64, error) {
	names, err := a.store.List(ctx, recordPrefix)
	if err != nil {
		return nil, 0, err
	}
	idx := make(map[uint64]string, len(names))
	var last uint64
	for _, name := range names {
		id, _, ok := parseName(name)
		if !ok {
			continue
		}
		idx[id] = name
		last = max(last, id)
	}
	return idx, last, nil
}

// Append stores rec under the next free ID.
func (a *BlobArchive) Append(ctx context.Context, rec *Record) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, last, err := a.index(ctx)
	if err != nil {
		return 0, fmt.Errorf("archive: list records: %w", err)
	}

	id := last + 1
	rec.ID = id
	data, err := a.codec.Marshal(rec)
	if err != nil {
		rec.ID = 0
		return 0, fmt.Errorf("archive: encode record: %w", err)
	}
	if err := a.store.Put(ctx, RecordName(id, a.codec.Name()), data); err != nil {
		rec.ID = 0
		return 0, fmt.Errorf("archive: write record %d: %w", id, err)
	}
	return id, nil
}

// Get loads a record by ID.
func (a *BlobArchive) Get(ctx context.Context, id uint64) (*Record, error) {
	names, err := a.store.List(ctx, fmt.Sprintf("%s%06d.", recordPrefix, id))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if gotID, _, ok := parseName(name); ok && gotID == id {
			return a.load(ctx, name)
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// List returns all records ordered by ID.
func (a *BlobArchive) List(ctx context.Context) ([]*Record, error) {
	idx, _, err := a.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := a.load(ctx, idx[id])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (a *BlobArchive) load(ctx context.Context, name string) (*Record, error) {
	_, ext, _ := parseName(name)
	c, ok := codec.ByName(ext)
	if !ok {
		return nil, fmt.Errorf("archive: %s: unknown codec %q", name, ext)
	}

	data, err := blobstore.ReadAll(ctx, a.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	rec := &Record{}
	if err := c.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("archive: decode %s: %w", name, err)
	}
	return rec, nil
}

// Close is a no-op; the blob store is owned by the caller.
func (a *BlobArchive) Close() error { return nil }
