// Package metric provides Prometheus metrics for snapkv.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "snapkv"

// Operation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Recorder receives one observation per store operation.
type Recorder interface {
	ObserveOperation(op, result string, elapsed time.Duration)
}

// Nop is a Recorder that discards observations.
type Nop struct{}

// ObserveOperation implements Recorder.
func (Nop) ObserveOperation(string, string, time.Duration) {}

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	RestoresTotal     prometheus.Counter
}

// NewRegistry creates a registry with the Go runtime and process
// collectors plus the snapkv operation metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by name and result.",
		}, []string{"op", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"op"}),
		RestoresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restores_total",
			Help:      "Successful restores from the snapshot archive.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.OperationsTotal,
		r.OperationDuration,
		r.RestoresTotal,
	)

	return r
}

// ObserveOperation implements Recorder.
func (r *Registry) ObserveOperation(op, result string, elapsed time.Duration) {
	r.OperationsTotal.WithLabelValues(op, result).Inc()
	r.OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if op == "restore" && result == ResultOK {
		r.RestoresTotal.Inc()
	}
}

// MustRegister registers additional collectors, such as a Collector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}
