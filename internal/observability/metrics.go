package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the fetch/cache
// cycle.
type Metrics struct {
	EndpointFetches *prometheus.CounterVec // labels: endpoint={plasma,mag,kp,scales,alerts}, outcome={success,error}
	CacheReads      *prometheus.CounterVec // labels: result={hit,miss,stale}
	CacheWrites     prometheus.Counter
	RefreshDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.EndpointFetches,
		m.CacheReads,
		m.CacheWrites,
		m.RefreshDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EndpointFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auroracast",
			Name:      "endpoint_fetches_total",
			Help:      "SWPC endpoint fetch attempts by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		CacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auroracast",
			Name:      "cache_reads_total",
			Help:      "Cache read attempts by result.",
		}, []string{"result"}),
		CacheWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auroracast",
			Name:      "cache_writes_total",
			Help:      "Successful cache writes.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "auroracast",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-write cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
