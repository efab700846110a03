package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the participation service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Engine Metrics
	JoinsTotal             prometheus.CounterVec
	LeavesTotal            prometheus.Counter
	CancellationsTotal     prometheus.Counter
	PromotionsTotal        prometheus.Counter
	InvitationsSentTotal   prometheus.CounterVec
	AttendanceMarksTotal   prometheus.Counter
	PeerConfirmationsTotal prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "participation_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "participation_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		JoinsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_joins_total",
				Help: "Join attempts by outcome (registered, waitlisted, rejected)",
			},
			[]string{"outcome"},
		),
		LeavesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "participation_leaves_total",
				Help: "Successful leave operations",
			},
		),
		CancellationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "participation_cancellations_total",
				Help: "Successful participation cancellations",
			},
		),
		PromotionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "participation_waitlist_promotions_total",
				Help: "Waitlist entries promoted into freed slots",
			},
		),
		InvitationsSentTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "participation_invitations_sent_total",
				Help: "Invitation send attempts by result (sent, failed)",
			},
			[]string{"result"},
		),
		AttendanceMarksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "participation_attendance_marks_total",
				Help: "Attendance statuses applied by organizers",
			},
		),
		PeerConfirmationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "participation_peer_confirmations_total",
				Help: "Peer attendance confirmations recorded",
			},
		),
	}
}
