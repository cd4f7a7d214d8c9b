package corrmin

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordGenerate is called after each catalog generation request.
	// matrices is the number of catalog matrices for the bound, duration is
	// the time taken (close to zero when the catalog already existed).
	RecordGenerate(bound int, matrices int64, duration time.Duration, err error)

	// RecordSearch is called after each search.
	// pairs is the number of evaluated candidate pairs.
	RecordSearch(k int, pairs int64, duration time.Duration, err error)

	// RecordArchive is called after each archive append.
	RecordArchive(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGenerate(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSearch(int, int64, time.Duration, error)   {}
func (NoopMetricsCollector) RecordArchive(time.Duration, error)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GenerateCount      atomic.Int64
	GenerateErrors     atomic.Int64
	GenerateTotalNanos atomic.Int64
	CatalogMatrices    atomic.Int64
	SearchCount        atomic.Int64
	SearchErrors       atomic.Int64
	SearchTotalNanos   atomic.Int64
	SearchPairs        atomic.Int64
	ArchiveCount       atomic.Int64
	ArchiveErrors      atomic.Int64
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(_ int, matrices int64, duration time.Duration, err error) {
	b.GenerateCount.Add(1)
	if err != nil {
		b.GenerateErrors.Add(1)
		return
	}
	b.GenerateTotalNanos.Add(duration.Nanoseconds())
	b.CatalogMatrices.Store(matrices)
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ int, pairs int64, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.SearchPairs.Add(pairs)
}

// RecordArchive implements MetricsCollector.
func (b *BasicMetricsCollector) RecordArchive(_ time.Duration, err error) {
	b.ArchiveCount.Add(1)
	if err != nil {
		b.ArchiveErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GenerateCount:    b.GenerateCount.Load(),
		GenerateErrors:   b.GenerateErrors.Load(),
		GenerateAvgNanos: avg(b.GenerateTotalNanos.Load(), b.GenerateCount.Load()-b.GenerateErrors.Load()),
		CatalogMatrices:  b.CatalogMatrices.Load(),
		SearchCount:      b.SearchCount.Load(),
		SearchErrors:     b.SearchErrors.Load(),
		SearchAvgNanos:   avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()-b.SearchErrors.Load()),
		SearchPairs:      b.SearchPairs.Load(),
		ArchiveCount:     b.ArchiveCount.Load(),
		ArchiveErrors:    b.ArchiveErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count <= 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GenerateCount    int64
	GenerateErrors   int64
	GenerateAvgNanos int64
	CatalogMatrices  int64
	SearchCount      int64
	SearchErrors     int64
	SearchAvgNanos   int64
	SearchPairs      int64
	ArchiveCount     int64
	ArchiveErrors    int64
}
