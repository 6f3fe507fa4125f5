package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the try engine.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	SessionsStarted prometheus.Counter
	SessionsDropped prometheus.Counter
	SessionsStored  prometheus.Gauge
	SpansRecorded   prometheus.Counter

	// Retrieval metrics
	BackendPolls        prometheus.Counter
	BackendPollDuration prometheus.Histogram
	BundlesByStatus     *prometheus.CounterVec
	IssuesDetected      *prometheus.CounterVec
}

// New creates the metrics collector, registering on reg (nil uses the
// default registry).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "try_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "try_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "try_sessions_started_total",
			Help: "Debug sessions started (requests where the gate decided to record)",
		}),
		SessionsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "try_sessions_dropped_total",
			Help: "Requests where the gate decided to drop",
		}),
		SessionsStored: factory.NewGauge(prometheus.GaugeOpts{
			Name: "try_sessions_stored",
			Help: "Debug sessions currently held in local storage",
		}),
		SpansRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "try_spans_recorded_total",
			Help: "Spans appended to storage",
		}),
		BackendPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "try_backend_polls_total",
			Help: "Poll loops run against the external trace backend",
		}),
		BackendPollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "try_backend_poll_duration_seconds",
			Help:    "Time spent polling the trace backend per retrieval",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		BundlesByStatus: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "try_bundles_total",
				Help: "Assembled trace bundles by resulting status",
			},
			[]string{"status"},
		),
		IssuesDetected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "try_issues_detected_total",
				Help: "Bottleneck issues detected by type",
			},
			[]string{"type"},
		),
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
