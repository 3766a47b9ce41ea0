package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	realtimeUpdates prometheus.Counter
	lastSteps       prometheus.Gauge
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steppull_fetches_total",
				Help: "Total number of resolved step fetches by source",
			},
			[]string{"source", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steppull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		realtimeUpdates: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "steppull_realtime_updates_total",
				Help: "Total realtime push updates dispatched",
			},
		),
		lastSteps: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "steppull_realtime_last_steps",
				Help: "Last cumulative step count seen on the realtime session",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "steppull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records a resolved fetch for a source.
func (r *Recorder) RecordFetch(source, result string) {
	r.fetchesTotal.WithLabelValues(source, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRealtimeUpdate records a dispatched realtime update.
func (r *Recorder) RecordRealtimeUpdate(steps int64) {
	r.realtimeUpdates.Inc()
	r.lastSteps.Set(float64(steps))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
