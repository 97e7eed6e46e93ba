package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus collectors for the intake service.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnership_submissions_total",
			Help: "Public submissions by outcome (accepted, invalid, rate_limited, error)",
		},
		[]string{"outcome"},
	)

	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Attempts rejected by the rate limiter",
		},
		[]string{"action"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification send attempts by template and status",
		},
		[]string{"template", "status"},
	)

	NotificationRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_retries_total",
			Help: "Notification retry attempts by result",
		},
		[]string{"result"},
	)

	FileUploadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "file_upload_bytes",
			Help:    "Size of stored uploads",
			Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
		},
		[]string{"purpose"},
	)
)

// Submission outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(SubmissionsTotal)
		prometheus.MustRegister(RateLimitRejectionsTotal)
		prometheus.MustRegister(NotificationsTotal)
		prometheus.MustRegister(NotificationRetriesTotal)
		prometheus.MustRegister(FileUploadBytes)
	})
}
