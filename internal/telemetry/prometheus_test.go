package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	c := NewPrometheusCollector()

	c.RecordGenerate(2, 1_000_000, time.Second, nil)
	c.RecordSearch(3, 3480, 20*time.Millisecond, nil)
	c.RecordSearch(3, 0, time.Millisecond, errors.New("boom"))
	c.RecordArchive(time.Millisecond, nil)

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"corrmin_operation_latency_seconds",
		"corrmin_operations_total",
		"corrmin_catalog_matrices",
		"corrmin_search_pairs_total",
	}, names)

	path := filepath.Join(t.TempDir(), "corrmin.prom")
	require.NoError(t, c.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `corrmin_catalog_matrices{bound="2"} 1e+06`)
	assert.Contains(t, text, `corrmin_operations_total{op="search",status="error"} 1`)
	assert.Contains(t, text, `corrmin_operations_total{op="search",status="success"} 1`)
	assert.Contains(t, text, `corrmin_operations_total{op="archive",status="success"} 1`)
	assert.Contains(t, text, "corrmin_search_pairs_total 3480")
}

func TestPrometheusCollector_Isolated(t *testing.T) {
	a := NewPrometheusCollector()
	b := NewPrometheusCollector()

	a.RecordSearch(1, 10, time.Millisecond, nil)

	fa, err := a.Registry().Gather()
	require.NoError(t, err)
	fb, err := b.Registry().Gather()
	require.NoError(t, err)

	assert.NotEmpty(t, fa)
	// Vectors without observed labels are not exported.
	assert.Len(t, fb, 1)
}
