package github

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	operationListPulls   = "list_pulls"
	operationGetPull     = "get_pull"
	operationListReviews = "list_reviews"
	operationCurrentUser = "current_user"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of calls made to the review provider API",
		},
		[]string{"operation", "outcome"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Duration of review provider API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	dispatchBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_dispatch_batch_size",
			Help:    "Number of change requests handed to the review fetch pool per call",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	dispatchChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_dispatch_chunks",
			Help:    "Number of concurrently running review fetch units per call",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)
)

func observeProviderCall(operation string, start time.Time, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	providerRequestsTotal.WithLabelValues(operation, outcome).Inc()
	providerRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
