package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/corrmin"
)

var _ corrmin.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements corrmin.MetricsCollector.
type PrometheusCollector struct {
	registry *prometheus.Registry

	opLatency       *prometheus.HistogramVec
	ops             *prometheus.CounterVec
	catalogMatrices *prometheus.GaugeVec
	pairs           prometheus.Counter
}

// NewPrometheusCollector creates a collector with its own registry.
func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "corrmin_operation_latency_seconds",
			Help:    "Latency of corrmin operations",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corrmin_operations_total",
			Help: "Total operations by type and status",
		}, []string{"op", "status"}),
		catalogMatrices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "corrmin_catalog_matrices",
			Help: "Number of matrices in the catalog of a bound",
		}, []string{"bound"}),
		pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corrmin_search_pairs_total",
			Help: "Total correspondence pairs evaluated",
		}),
	}

	c.registry.MustRegister(c.opLatency, c.ops, c.catalogMatrices, c.pairs)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordGenerate implements corrmin.MetricsCollector.
func (c *PrometheusCollector) RecordGenerate(bound int, matrices int64, d time.Duration, err error) {
	c.observe("generate", d, err)
	if err == nil {
		c.catalogMatrices.WithLabelValues(strconv.Itoa(bound)).Set(float64(matrices))
	}
}

// RecordSearch implements corrmin.MetricsCollector.
func (c *PrometheusCollector) RecordSearch(_ int, pairs int64, d time.Duration, err error) {
	c.observe("search", d, err)
	c.pairs.Add(float64(pairs))
}

// RecordArchive implements corrmin.MetricsCollector.
func (c *PrometheusCollector) RecordArchive(d time.Duration, err error) {
	c.observe("archive", d, err)
}

// WriteToTextfile writes the registry to filename in the text exposition
// format. The file is replaced atomically.
func (c *PrometheusCollector) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.registry)
}

func (c *PrometheusCollector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}
