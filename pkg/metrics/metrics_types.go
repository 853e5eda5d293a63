package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "enc3"

// Registry holds all metrics for a run
type Registry struct {
	// Decode Metrics
	FilesTotal          *prometheus.CounterVec
	DecodeAttemptsTotal *prometheus.CounterVec
	DeltaMatchesTotal   *prometheus.CounterVec
	FailuresTotal       *prometheus.CounterVec
	BytesDecodedTotal   prometheus.Counter
	FileDuration        *prometheus.HistogramVec

	// Replace Metrics
	BackupsLeftTotal prometheus.Counter
	RestoresTotal    prometheus.Counter

	// Run Metrics
	Workers         prometheus.Gauge
	FilesQueued     prometheus.Gauge
	RunDuration     prometheus.Gauge
	RunStartSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initDecodeMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
