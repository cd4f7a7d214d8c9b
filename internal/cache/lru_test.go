package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/corrmin/internal/resource"
)

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(30, nil)

	require.True(t, c.Set("d1/det1-000000.seg", make([]byte, 10)))
	require.True(t, c.Set("d1/det1-000001.seg", make([]byte, 10)))
	require.True(t, c.Set("d1/det2-000000.seg", make([]byte, 10)))
	assert.Equal(t, int64(30), c.Size())

	// Touch the oldest so the second entry becomes the eviction victim.
	_, ok := c.Get("d1/det1-000000.seg")
	require.True(t, ok)

	require.True(t, c.Set("d1/det3-000000.seg", make([]byte, 10)))
	_, ok = c.Get("d1/det1-000001.seg")
	assert.False(t, ok)
	_, ok = c.Get("d1/det1-000000.seg")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_EdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRU(50, rc)

	// Item larger than capacity
	assert.False(t, c.Set("big", make([]byte, 60)))
	_, ok := c.Get("big")
	assert.False(t, ok)

	// Replacing an entry releases the old bytes.
	require.True(t, c.Set("k", make([]byte, 10)))
	require.True(t, c.Set("k", make([]byte, 20)))
	assert.Equal(t, int64(20), c.Size())
	assert.Equal(t, int64(20), rc.MemoryUsage())

	require.True(t, c.Set("k", make([]byte, 5)))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())
}

func TestLRU_ResourceLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c := NewLRU(50, rc)

	require.True(t, c.Set("a", make([]byte, 8)))
	assert.False(t, c.Set("b", make([]byte, 4)))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(8), rc.MemoryUsage())
}

func TestLRU_InvalidatePrefix(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	c := NewLRU(1<<20, rc)

	c.Set("d1/det1-000000.seg", make([]byte, 4))
	c.Set("d1/det2-000000.seg", make([]byte, 4))
	c.Set("d2/det1-000000.seg", make([]byte, 4))

	c.InvalidatePrefix("d1/")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(4), c.Size())
	assert.Equal(t, int64(4), rc.MemoryUsage())

	_, ok := c.Get("d2/det1-000000.seg")
	assert.True(t, ok)
}

func TestLRU_Nil(t *testing.T) {
	var c *LRU
	assert.False(t, c.Set("k", []byte{1}))
	_, ok := c.Get("k")
	assert.False(t, ok)
	c.InvalidatePrefix("")
	assert.Zero(t, c.Size())
	assert.Zero(t, c.Len())
}
