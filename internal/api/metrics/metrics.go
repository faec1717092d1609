// Package metrics defines and registers all custom Prometheus metrics for the
// hospital administration API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hospital"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token exchanges.
// Label:
//   - result: "success", "invalid_token", "error"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh token exchanges, by result.",
	},
	[]string{"result"},
)

// AppointmentsCreatedTotal counts appointment bookings.
// Label:
//   - actor: "admin", "doctor", or "patient"
var AppointmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments created, by booking actor.",
	},
	[]string{"actor"},
)

// AppointmentTransitionsTotal counts lifecycle transition attempts.
// Labels:
//   - action: "confirm", "cancel", "complete"
//   - result: "success" or "rejected"
var AppointmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_transitions_total",
		Help:      "Total number of appointment lifecycle transitions, by action and result.",
	},
	[]string{"action", "result"},
)

// ReviewsCreatedTotal counts reviews accepted through the eligibility gate.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429 by the rate limiter.",
	},
)

// RegisterMailQueueDepth exposes the outbound mail queue depth as a gauge.
// Call once at startup with the dispatcher's Depth func.
func RegisterMailQueueDepth(depth func() int64) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mail_queue_depth",
			Help:      "Current number of messages pending in the outbound mail queue.",
		},
		func() float64 { return float64(depth()) },
	)
}
