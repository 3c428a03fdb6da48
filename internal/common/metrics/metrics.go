// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dn_api_requests_total",
			Help: "Total number of requests sent to the notification service",
		},
		[]string{"endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dn_api_request_duration_seconds",
			Help:    "Duration of notification service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ArgumentValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dn_argument_validation_failures_total",
			Help: "Total number of argument values rejected before submission",
		},
		[]string{"kind"},
	)

	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dn_stale_responses_discarded_total",
			Help: "Total number of list responses dropped because a newer request was issued",
		},
	)
)

// ObserveAPIRequest records one finished request. status is the HTTP status
// code, or 0 when no response arrived.
func ObserveAPIRequest(endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequests.WithLabelValues(endpoint, label).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
