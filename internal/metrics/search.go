package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches by requested and served mode",
		},
		[]string{"requested", "served"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "connect",
			Name:      "search_results",
			Help:      "Number of solutions returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"mode"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "connect",
			Name:      "search_duration_seconds",
			Help:      "Catalog search duration in seconds, provider calls included",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"},
	)

	SearchFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "search_fallback_total",
			Help:      "Assisted searches served in keyword mode",
		},
		[]string{"reason"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchFallbackTotal)
	searchMetricsRegistered = true
}
