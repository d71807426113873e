// Package metric provides Prometheus metrics for snapkv.
//
//   - prometheus.go: per-instance registry, operation counters and the
//     /metrics HTTP handler
//   - collector.go: a collector that samples store and archive sizes at
//     scrape time
//
// Each server owns its own prometheus.Registry; nothing is registered
// with the global default registerer, so several instances can coexist
// in one process (tests included).
package metric
