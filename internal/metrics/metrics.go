package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Authentication metrics
	authLoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // success/failure/blocked
	)

	authLoginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_login_duration_seconds",
			Help:    "Login request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	authRateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
	)

	// Token metrics
	tokensIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of signed tokens by family",
		},
		[]string{"family"},
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of token verifications",
		},
		[]string{"family", "result"}, // result: success/failure
	)

	tokenRenewalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_renewals_total",
			Help: "Total number of successful refresh calls",
		},
		[]string{"outcome"}, // access_only/renewed
	)
)

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLoginAttempt records a login attempt metric
func RecordLoginAttempt(status string, duration time.Duration) {
	authLoginAttemptsTotal.WithLabelValues(status).Inc()
	authLoginDuration.Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limit hit
func RecordRateLimitHit() {
	authRateLimitHitsTotal.Inc()
}

// RecordTokenIssued records a newly signed token
func RecordTokenIssued(family string) {
	tokensIssuedTotal.WithLabelValues(family).Inc()
}

// RecordTokenVerification records the result of a token verification
func RecordTokenVerification(family string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	tokenVerificationsTotal.WithLabelValues(family, result).Inc()
}

// RecordTokenRenewal records whether a refresh call also renewed the refresh token
func RecordTokenRenewal(renewed bool) {
	outcome := "access_only"
	if renewed {
		outcome = "renewed"
	}
	tokenRenewalsTotal.WithLabelValues(outcome).Inc()
}
