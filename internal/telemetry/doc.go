// Package telemetry exports corrmin operation metrics to Prometheus.
//
// PrometheusCollector registers its metrics on a private registry so several
// collectors can coexist in one process. Batch runs that exit before a
// scrape can dump the registry in the node_exporter textfile format with
// WriteToTextfile.
package telemetry
