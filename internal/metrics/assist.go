package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assisted search Prometheus metrics.
var (
	AssistRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "assist_requests_total",
			Help:      "Total number of assist provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	AssistRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "connect",
			Name:      "assist_request_duration_seconds",
			Help:      "Assist provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider", "model"},
	)

	AssistTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "assist_tokens_total",
			Help:      "Total assist tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	AssistErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "assist_errors_total",
			Help:      "Total assist provider errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	AssistBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "connect",
			Name:      "assist_budget_tokens_remaining",
			Help:      "Remaining assist token budget",
		},
		[]string{"provider", "period"},
	)

	AssistCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connect",
			Name:      "assist_cache_total",
			Help:      "Assist expansion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var assistMetricsRegistered bool

// RegisterAssistMetrics registers assisted search metrics. Must be called once from main.
func RegisterAssistMetrics() {
	if assistMetricsRegistered {
		return
	}
	prometheus.MustRegister(AssistRequestsTotal)
	prometheus.MustRegister(AssistRequestDuration)
	prometheus.MustRegister(AssistTokensTotal)
	prometheus.MustRegister(AssistErrorsTotal)
	prometheus.MustRegister(AssistBudgetTokensRemaining)
	prometheus.MustRegister(AssistCacheTotal)
	assistMetricsRegistered = true
}
