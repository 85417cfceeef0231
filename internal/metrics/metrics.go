package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomstore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecomstore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReviewsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomstore_reviews_written_total",
			Help: "Review writes by outcome",
		},
		[]string{"status"},
	)

	RatingRollups = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecomstore_rating_rollups_total",
			Help: "Number of product average rating recomputations",
		},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomstore_auth_attempts_total",
			Help: "Registrations and logins by outcome",
		},
		[]string{"action", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomstore_cache_hits_total",
			Help: "Cache hits by key family",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomstore_cache_misses_total",
			Help: "Cache misses by key family",
		},
		[]string{"cache"},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordReviewWrite(status string) {
	ReviewsWritten.WithLabelValues(status).Inc()
}

func RecordRatingRollup() {
	RatingRollups.Inc()
}

func RecordAuthAttempt(action, status string) {
	AuthAttempts.WithLabelValues(action, status).Inc()
}

func RecordCache(name string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(name).Inc()
		return
	}
	CacheMisses.WithLabelValues(name).Inc()
}
