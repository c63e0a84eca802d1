// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coderedeem"

// Redemption kinds.
const (
	KindSingleUse = "single_use"
	KindTimed     = "timed"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
	)
)

// Business metrics
var (
	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemptions_total",
			Help:      "Redemption attempts by code kind, outcome and reason",
		},
		[]string{"kind", "outcome", "reason"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Bulk import rows by code kind and result",
		},
		[]string{"kind", "result"}, // "loaded" or "skipped"
	)

	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Total number of bulk imports",
		},
		[]string{"status"},
	)

	LedgerPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_purged_total",
			Help:      "Total number of ledger rows removed by retention",
		},
	)
)

// Redemption records the outcome of a redemption attempt.
func Redemption(kind, outcome, reason string) {
	RedemptionsTotal.WithLabelValues(kind, outcome, reason).Inc()
}

// ImportRows records the loaded and skipped row counts of one import.
func ImportRows(kind string, loaded, skipped int) {
	ImportRowsTotal.WithLabelValues(kind, "loaded").Add(float64(loaded))
	ImportRowsTotal.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// ImportFinished records an import result.
func ImportFinished(err error) {
	if err != nil {
		ImportsTotal.WithLabelValues("failed").Inc()
		return
	}
	ImportsTotal.WithLabelValues("completed").Inc()
}
