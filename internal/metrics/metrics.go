// Package metrics exposes Prometheus instrumentation for the dispatch service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "herald_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	notificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_notifications_created_total",
			Help: "Notification records created by event kind and recipient role",
		},
		[]string{"kind", "role"},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_emails_sent_total",
			Help: "Email send attempts by event kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	markReadOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_mark_read_total",
			Help: "Mark-as-read operations by scope (single or bulk)",
		},
		[]string{"scope"},
	)

	subscriptionPushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "herald_subscription_pushes_total",
			Help: "Snapshot pushes delivered to notification subscribers",
		},
	)

	unreadCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herald_unread_cache_total",
			Help: "Unread-count cache lookups by result",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records HTTP request metrics.
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordNotificationCreated records a persisted notification record.
func RecordNotificationCreated(kind, role string) {
	notificationsCreated.WithLabelValues(kind, role).Inc()
}

// RecordEmailSent records an email send attempt and its outcome.
func RecordEmailSent(kind string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	emailsSent.WithLabelValues(kind, outcome).Inc()
}

// RecordMarkRead records a mark-as-read operation.
func RecordMarkRead(scope string) {
	markReadOps.WithLabelValues(scope).Inc()
}

// RecordSubscriptionPush records one snapshot delivered to a subscriber.
func RecordSubscriptionPush() {
	subscriptionPushes.Inc()
}

// RecordUnreadCacheLookup records an unread-count cache hit or miss.
func RecordUnreadCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	unreadCacheHits.WithLabelValues(result).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		RecordRequest(r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}
