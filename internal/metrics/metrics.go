// Package metrics provides Prometheus metrics for the query pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "govai"

var (
	// QueriesTotal counts logged pipeline runs.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of resolved queries",
		},
		[]string{"language", "status"},
	)

	// QueryDuration measures end-to-end processing time.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of query resolution in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
		},
		[]string{"status"},
	)

	// SearchFallbacksTotal counts searches answered from the built-in table.
	SearchFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_fallbacks_total",
			Help:      "Total number of searches served from fallback results",
		},
		[]string{"reason"},
	)

	// SearchCacheHitsTotal counts searches served from the result cache.
	SearchCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_hits_total",
			Help:      "Total number of searches served from the cache",
		},
	)

	// GenerationFailuresTotal counts answers replaced by a fallback template.
	GenerationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Total number of failed answer generations",
		},
	)

	// LogWriteFailuresTotal counts durable log writes that fell back to memory.
	LogWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_write_failures_total",
			Help:      "Total number of query log writes that failed",
		},
	)
)

// Search fallback reasons.
const (
	ReasonNoProvider = "no_provider"
	ReasonError      = "error"
	ReasonTimeout    = "timeout"
	ReasonCancelled  = "cancelled"
)

// RecordQuery records one logged pipeline run.
func RecordQuery(language, status string, seconds float64) {
	QueriesTotal.WithLabelValues(language, status).Inc()
	QueryDuration.WithLabelValues(status).Observe(seconds)
}

// RecordSearchFallback records a search answered from fallback results.
func RecordSearchFallback(reason string) {
	SearchFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordCacheHit records a cached search.
func RecordCacheHit() {
	SearchCacheHitsTotal.Inc()
}

// RecordGenerationFailure records a fallback answer.
func RecordGenerationFailure() {
	GenerationFailuresTotal.Inc()
}

// RecordLogWriteFailure records a failed durable log write.
func RecordLogWriteFailure() {
	LogWriteFailuresTotal.Inc()
}
