package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "activity"

var (
	// QueriesTotal counts range queries issued to the log backend, by outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of range queries issued to the log backend",
		},
		[]string{"status"},
	)

	// QueryDuration tracks the latency of log backend range queries.
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of log backend range queries in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)

	// QueryResults tracks how many entries each query returned after filtering.
	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Distribution of entry counts returned per activity log query",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 4),
		},
	)

	// ParseFailures counts log lines that could not be normalized and were
	// replaced with fallback entries.
	ParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Total number of log lines replaced with fallback entries",
		},
	)
)
