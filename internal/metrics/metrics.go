package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and route
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackathon_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	RequestInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hackathon_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// OTPEvents counts OTP issuance and verification outcomes
	OTPEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_otp_events_total",
			Help: "OTP issue and verify outcomes",
		},
		[]string{"event"},
	)

	// RateLimiterRejections counts OTP requests rejected by the limiter
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_rate_limiter_rejections_total",
			Help: "Total number of OTP requests rejected by the rate limiter",
		},
		[]string{"reason"},
	)

	SubmissionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hackathon_submissions_recorded_total",
			Help: "Stage submissions written, including resubmissions",
		},
	)

	EligibilityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_eligibility_rejections_total",
			Help: "Submission attempts rejected by the stage gate",
		},
		[]string{"reason"},
	)

	// CacheHits counts the number of cache hits
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	// CacheMisses counts the number of cache misses
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	MailDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackathon_mail_dispatched_total",
			Help: "Outbound e-mails by driver and result",
		},
		[]string{"driver", "result"},
	)
)
