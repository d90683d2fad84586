// Package metrics provides Prometheus metrics collection for the
// generic medicines API. Besides the standard HTTP request metrics it
// tracks searches by outcome, agent tool calls by name, and failures
// of the two upstream providers.
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medicine_searches_total",
			Help: "Total medicine searches by outcome",
		},
		[]string{"outcome"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_calls_total",
			Help: "Total agent tool invocations by tool name",
		},
		[]string{"tool"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total upstream provider failures",
		},
		[]string{"provider"},
	)

	VocabularyReachable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vocabulary_service_reachable",
			Help: "Whether the last vocabulary service probe succeeded (1) or failed (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(UpstreamErrorsTotal)
	prometheus.MustRegister(VocabularyReachable)
}
