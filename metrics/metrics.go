// Package metrics provides Prometheus metrics collection for the cases API.
// It exports HTTP server metrics (request totals, latency, in-flight count)
// and domain counters tracking the corpus transformation (records processed
// or failed, events built, formulas synthesized).
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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	RecordsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cases_records_processed_total",
			Help: "Case records successfully transformed",
		},
	)

	RecordsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cases_records_failed_total",
			Help: "Case records rejected as malformed",
		},
	)

	EventsBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cases_events_built_total",
			Help: "Diagnostic-treatment events assembled",
		},
	)

	FormulasSynthesized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cases_formulas_synthesized_total",
			Help: "Formula entities synthesized from unknown-formula spans",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(RecordsProcessed)
	prometheus.MustRegister(RecordsFailed)
	prometheus.MustRegister(EventsBuilt)
	prometheus.MustRegister(FormulasSynthesized)
}
