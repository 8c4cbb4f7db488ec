package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for client request telemetry.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewMetrics creates and registers the client metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of backend requests by method and status.",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		requestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "client",
			Name:      "requests_in_flight",
			Help:      "Number of backend requests currently in flight.",
		}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, status).Inc()
	m.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// IncInFlight marks a request as started.
func (m *Metrics) IncInFlight() {
	if m == nil {
		return
	}
	m.requestsInFlight.Inc()
}

// DecInFlight marks a request as finished.
func (m *Metrics) DecInFlight() {
	if m == nil {
		return
	}
	m.requestsInFlight.Dec()
}
