package recordstore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_requests_total",
			Help: "Total requests sent to the record store",
		},
		[]string{"method", "outcome"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_retries_total",
			Help: "Total retried record store operations",
		},
		[]string{"operation", "code"},
	)

	rateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "record_store_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the client-side token bucket",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func observeRateLimitWait(d time.Duration) {
	rateLimitWaitSeconds.Observe(d.Seconds())
}
