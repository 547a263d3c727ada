// Package metrics exposes Prometheus collectors for the API server.
//
// HTTP traffic is recorded by the gin middleware; domain counters are bumped
// by the services when the corresponding operation succeeds.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yamdb_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yamdb_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Auth Metrics
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_signups_total",
			Help: "Signup requests by outcome",
		},
		[]string{"outcome"}, // "created", "resent"
	)

	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_tokens_issued_total",
			Help: "Access tokens issued for a valid confirmation code",
		},
	)

	ConfirmationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_confirmation_failures_total",
			Help: "Token requests rejected because of an invalid or expired code",
		},
	)

	EmailFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_email_failures_total",
			Help: "Confirmation emails that could not be delivered",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Content Metrics
	ReviewsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_reviews_created_total",
			Help: "Reviews created",
		},
	)

	CommentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yamdb_comments_created_total",
			Help: "Comments created",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordSignup(created bool) {
	outcome := "resent"
	if created {
		outcome = "created"
	}
	SignupsTotal.WithLabelValues(outcome).Inc()
}
