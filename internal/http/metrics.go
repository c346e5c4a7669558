// Package http provides the HTTP server and Prometheus exposition for the fuel price exporter.
package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the operational metrics of the exporter itself, as opposed to
// the per-station gauges rendered by the Exporter collector.
type Metrics struct {
	// FetchesTotal counts fetch cycles by outcome ("success" or an error
	// classification).
	FetchesTotal *prometheus.CounterVec
	// FetchDuration observes how long fetch cycles take.
	FetchDuration prometheus.Histogram
}

// NewMetrics creates and registers the operational metrics on the given
// registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Total number of price fetch cycles by outcome",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Price fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// RecordFetch records the outcome and duration of one fetch cycle. Implements
// refresher.FetchMetrics.
func (m *Metrics) RecordFetch(status string, duration float64) {
	m.FetchesTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(duration)
}
