package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operation Metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noteboard_operations_total",
			Help: "Total number of tree operations",
		},
		[]string{"operation", "namespace", "outcome"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noteboard_operation_duration_seconds",
			Help:    "Duration of tree operations including retries",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "namespace"},
	)

	ConflictRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noteboard_conflict_retries_total",
			Help: "Total number of retries after a conflicting update",
		},
		[]string{"operation"},
	)

	// Promotion Metrics
	PromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noteboard_promotions_total",
			Help: "Total number of promotions of a transient tree",
		},
		[]string{"outcome"},
	)

	PromotedResourcesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noteboard_promoted_resources_total",
			Help: "Total number of resources moved into durable storage by promotion",
		},
		[]string{"kind"}, // folder, note, room
	)

	// Storage Metrics
	SnapshotBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "noteboard_snapshot_bytes",
			Help:    "Size of saved transient snapshots",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"codec"},
	)

	ContentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "noteboard_content_operations_total",
			Help: "Total number of content store operations",
		},
		[]string{"operation", "status"}, // put/get/delete, success/failure
	)
)

// ObserveOperation records one finished operation.
func ObserveOperation(operation, namespace, outcome string, start time.Time) {
	OperationsTotal.WithLabelValues(operation, namespace, outcome).Inc()
	OperationDuration.WithLabelValues(operation, namespace).Observe(time.Since(start).Seconds())
}

// ObserveContent records one content store call.
func ObserveContent(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	ContentOperationsTotal.WithLabelValues(operation, status).Inc()
}
