package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Reduction outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
)

// ReductionMetrics holds the Prometheus collectors of the reducer on a
// private registry, so tests and repeated runs never collide with the
// global default registry.
type ReductionMetrics struct {
	registry *prometheus.Registry

	reductions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	workers    prometheus.Gauge
	integers   prometheus.Counter
}

// NewReductionMetrics creates and registers the reducer collectors together
// with the Go runtime collector.
func NewReductionMetrics() *ReductionMetrics {
	m := &ReductionMetrics{
		registry: prometheus.NewRegistry(),
		reductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rangesum_reductions_total",
			Help: "Number of range reductions by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rangesum_reduction_duration_seconds",
			Help:    "Wall-clock duration of successful range reductions.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"algorithm"}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rangesum_workers",
			Help: "Worker count of the most recent reduction.",
		}),
		integers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rangesum_integers_summed_total",
			Help: "Number of integers covered by successful reductions.",
		}),
	}
	m.registry.MustRegister(
		m.reductions,
		m.duration,
		m.workers,
		m.integers,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *ReductionMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSuccess records a completed reduction.
func (m *ReductionMetrics) ObserveSuccess(algorithm string, workers int, integers uint64, d time.Duration) {
	m.reductions.WithLabelValues(algorithm, StatusSuccess).Inc()
	m.duration.WithLabelValues(algorithm).Observe(d.Seconds())
	m.workers.Set(float64(workers))
	m.integers.Add(float64(integers))
}

// ObserveFailure records a failed reduction under the given status.
func (m *ReductionMetrics) ObserveFailure(algorithm, status string) {
	m.reductions.WithLabelValues(algorithm, status).Inc()
}

// WriteToFile writes every registered metric to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (m *ReductionMetrics) WriteToFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
