package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Store operation latency (seconds)
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_op_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "collection"},
	)

	// Users created
	UsersCreatedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_count",
			Help: "Total number of users created",
		},
	)

	// Messages sent
	MessagesSentCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_count",
			Help: "Total number of messages sent",
		},
		[]string{"email_tag"},
	)

	// Rejected authentication attempts
	AuthFailureCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failure_count",
			Help: "Total number of rejected authentication attempts",
		},
	)
)

// RecordHTTPRequestDuration records one HTTP request observation.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordStoreOpDuration records one storage operation observation.
func RecordStoreOpDuration(operation, collection string, duration time.Duration) {
	StoreOpDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

// IncrementUsersCreated increments the user creation counter.
func IncrementUsersCreated() {
	UsersCreatedCount.Inc()
}

// IncrementMessagesSent increments the sent-message counter for a tag.
func IncrementMessagesSent(emailTag string) {
	MessagesSentCount.WithLabelValues(emailTag).Inc()
}

// IncrementAuthFailure increments the rejected-authentication counter.
func IncrementAuthFailure() {
	AuthFailureCount.Inc()
}
