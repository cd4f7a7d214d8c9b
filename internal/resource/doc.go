// Package resource bounds the memory and IO used while building and reading
// matrix catalogs.
//
//	┌──────────────────────────────────────────────┐
//	│                  Controller                  │
//	├──────────────────────┬───────────────────────┤
//	│  Memory Limit        │  IO Rate Limiter      │
//	│  (fail-fast)         │  (token bucket)       │
//	├──────────────────────┼───────────────────────┤
//	│  AcquireMemory       │  AcquireIO            │
//	│  ReleaseMemory       │  RateLimitedWriter    │
//	│  MemoryUsage         │  RateLimitedReader    │
//	└──────────────────────┴───────────────────────┘
//
// Catalog generation reserves one segment buffer per determinant bucket
// before enumerating, so an oversized segment capacity fails immediately
// with ErrMemoryLimitExceeded instead of exhausting the heap halfway through
// a run:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(int64(capacity * 9)); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(int64(capacity * 9))
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
