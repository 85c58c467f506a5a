// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsAppended counts successfully persisted ledger entries.
	TransactionsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medstock_transactions_appended_total",
		Help: "Number of inventory transactions appended to the ledger",
	})

	// TransactionsRejected counts appends rejected by validation.
	TransactionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medstock_transactions_rejected_total",
		Help: "Number of inventory transactions rejected before write",
	})

	// HealthComputations counts full stock-health derivations (cache misses).
	HealthComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medstock_health_computations_total",
		Help: "Number of stock-health snapshot computations",
	})

	// RequestDuration observes HTTP handler latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medstock_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
