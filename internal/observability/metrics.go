package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for catalog refreshes.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: outcome={success,timeout,http_status,empty_response,malformed_body,unexpected_structure,unknown}
	FetchDuration prometheus.Histogram

	EventsNormalized prometheus.Counter
	AbsentFields     *prometheus.CounterVec // labels: column
	Refreshes        prometheus.Counter
	SnapshotEvents   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.EventsNormalized,
		m.AbsentFields,
		m.Refreshes,
		m.SnapshotEvents,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_total",
			Help:      "Catalog fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_duration_seconds",
			Help:      "Duration of a single catalog request, including failures.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_normalized_total",
			Help:      "Total features normalized into event records.",
		}),
		AbsentFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "absent_fields_total",
			Help:      "Normalized record fields with no source value, by column.",
		}, []string{"column"}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed dashboard refresh cycles.",
		}),
		SnapshotEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_events",
			Help:      "Number of events in the most recent snapshot.",
		}),
	}
}
