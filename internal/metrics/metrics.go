// Package metrics holds the Prometheus collectors for outgoing service calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "langtranslator"
)

// Metrics groups the collectors registered for one client.
type Metrics struct {
	// Codes: HTTP status code as a string, or "transport_error" when no
	// response was received.
	Requests *prometheus.CounterVec

	Duration *prometheus.HistogramVec

	InFlight prometheus.Gauge
}

// New registers the collectors on reg. Use a fresh prometheus.Registry per
// client; registering twice on the same registry panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of calls to the translator service, by operation and response code.",
			},
			[]string{"operation", "code"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Latency of calls to the translator service.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Calls currently waiting for a response.",
			},
		),
	}
}

// Observe records one finished call.
func (m *Metrics) Observe(operation, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, code).Inc()
	m.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Begin marks a call as in flight and returns the function that ends it.
func (m *Metrics) Begin() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}

// WriteTextfile dumps everything gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
