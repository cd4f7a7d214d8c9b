package corrmin

import (
	"log/slog"

	"github.com/hupe1980/corrmin/archive"
	"github.com/hupe1980/corrmin/internal/resource"
)

// DefaultK is the number of best pairs a search keeps unless WithK is given.
const DefaultK = 3

// ResourceConfig limits the memory held by catalog generation and the
// throughput of segment reads and writes.
type ResourceConfig = resource.Config

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	segmentCapacity  int
	compression      string
	cacheBytes       int64
	k                int
	archive          archive.Store
	resources        *ResourceConfig
}

// Option configures a Finder.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &corrmin.BasicMetricsCollector{}
//	f, _ := corrmin.New(store, corrmin.WithMetricsCollector(metrics))
//	// ... use f ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, pairs: %d\n", stats.SearchCount, stats.SearchPairs)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := corrmin.NewJSONLogger(slog.LevelInfo)
//	f, _ := corrmin.New(store, corrmin.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSegmentCapacity sets the maximum number of matrices per catalog segment.
// It only affects catalogs generated by this Finder.
func WithSegmentCapacity(n int) Option {
	return func(o *options) {
		o.segmentCapacity = n
	}
}

// WithCompression selects the segment compression: "lz4" (default), "zstd"
// or "none".
func WithCompression(name string) Option {
	return func(o *options) {
		o.compression = name
	}
}

// WithSegmentCache keeps up to bytes of segment blobs read from remote
// stores in memory, so repeated passes over a bucket skip the network.
func WithSegmentCache(bytes int64) Option {
	return func(o *options) {
		o.cacheBytes = bytes
	}
}

// WithK sets the number of best pairs a search keeps.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithArchive appends every finished search to store.
func WithArchive(store archive.Store) Option {
	return func(o *options) {
		o.archive = store
	}
}

// WithResourceConfig limits generation memory and segment IO.
func WithResourceConfig(cfg ResourceConfig) Option {
	return func(o *options) {
		o.resources = &cfg
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		k:                DefaultK,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
