package manifest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/corrmin/blobstore"
	"github.com/hupe1980/corrmin/codec"
)

const (
	// FileName is the manifest blob name inside a catalog directory.
	FileName = "MANIFEST"
	// CurrentVersion is the manifest format version written by Save.
	CurrentVersion = 1
)

// Dir returns the catalog directory for bound b ("d{b}").
func Dir(bound int) string {
	return fmt.Sprintf("d%d", bound)
}

// Path returns the manifest blob name for bound b.
func Path(bound int) string {
	return Dir(bound) + "/" + FileName
}

// SegmentPrefix returns the blob name prefix shared by all segments of one
// determinant bucket.
func SegmentPrefix(bound, det int) string {
	return fmt.Sprintf("%s/det%d-", Dir(bound), det)
}

// SegmentName returns the blob name of segment seg in bucket det.
func SegmentName(bound, det, seg int) string {
	return fmt.Sprintf("%s%06d.seg", SegmentPrefix(bound, det), seg)
}

// Manifest describes a completed catalog.
type Manifest struct {
	Version         int       `json:"version"`
	Bound           int       `json:"bound"`
	CreatedAt       time.Time `json:"created_at"`
	SegmentCapacity int       `json:"segment_capacity"`
	Compression     string    `json:"compression"`
	Buckets         []Bucket  `json:"buckets"`
}

// Bucket describes the segments of one determinant.
type Bucket struct {
	Det      int           `json:"det"`
	Total    int           `json:"total"`
	Segments []SegmentInfo `json:"segments"`
}

// SegmentInfo describes a single segment.
type SegmentInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// New creates an empty manifest for bound.
func New(bound, capacity int, compression string) *Manifest {
	return &Manifest{
		Version:         CurrentVersion,
		Bound:           bound,
		SegmentCapacity: capacity,
		Compression:     compression,
	}
}

// AddSegment records a flushed segment, keeping buckets ordered by determinant.
func (m *Manifest) AddSegment(det int, name string, count int) {
	i := sort.Search(len(m.Buckets), func(i int) bool { return m.Buckets[i].Det >= det })
	if i == len(m.Buckets) || m.Buckets[i].Det != det {
		m.Buckets = append(m.Buckets, Bucket{})
		copy(m.Buckets[i+1:], m.Buckets[i:])
		m.Buckets[i] = Bucket{Det: det}
	}
	b := &m.Buckets[i]
	b.Segments = append(b.Segments, SegmentInfo{Name: name, Count: count})
	b.Total += count
}

// Bucket returns the bucket for det.
func (m *Manifest) Bucket(det int) (Bucket, bool) {
	for _, b := range m.Buckets {
		if b.Det == det {
			return b, true
		}
	}
	return Bucket{}, false
}

// Segments returns the segment names of bucket det in write order.
func (m *Manifest) Segments(det int) []string {
	b, ok := m.Bucket(det)
	if !ok {
		return nil
	}
	names := make([]string, len(b.Segments))
	for i, s := range b.Segments {
		names[i] = s.Name
	}
	return names
}

// Total returns the number of matrices across all buckets.
func (m *Manifest) Total() int {
	var n int
	for _, b := range m.Buckets {
		n += b.Total
	}
	return n
}

// Store loads and saves catalog manifests in a blob store.
type Store struct {
	store blobstore.BlobStore
	codec codec.Codec
	mu    sync.Mutex
}

// NewStore creates a new manifest store. A nil codec selects codec.Default.
func NewStore(store blobstore.BlobStore, c codec.Codec) *Store {
	if c == nil {
		c = codec.Default
	}
	return &Store{store: store, codec: c}
}

// Load loads the manifest of the catalog for bound.
func (s *Store) Load(ctx context.Context, bound int) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := blobstore.ReadAll(ctx, s.store, Path(bound))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m := &Manifest{}
	if err := s.codec.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, Path(bound), err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrIncompatibleVersion, m.Version)
	}
	if m.Bound != bound {
		return nil, fmt.Errorf("%w: %s records bound %d", ErrCorrupt, Path(bound), m.Bound)
	}
	return m, nil
}

// Save writes m as the manifest of its bound.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.Version = CurrentVersion
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	data, err := s.codec.Marshal(m)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, Path(m.Bound), data)
}

// Delete removes the manifest of bound. Deleting a missing manifest is not an error.
func (s *Store) Delete(ctx context.Context, bound int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Delete(ctx, Path(bound))
}
