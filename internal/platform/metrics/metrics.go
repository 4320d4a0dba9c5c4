package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the auth core.
type Metrics struct {
	SignIns          *prometheus.CounterVec
	UsersCreated     prometheus.Counter
	SessionsIssued   *prometheus.CounterVec
	AuthFailures     prometheus.Counter
	GateDecisions    *prometheus.CounterVec
	SignInDurationMs prometheus.Histogram
}

// New registers and returns auth metrics collectors.
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wellspring_signins_total",
			Help: "Total number of sign-in attempts by outcome",
		}, []string{"outcome"}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellspring_users_created_total",
			Help: "Total number of user records created",
		}),
		SessionsIssued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wellspring_sessions_issued_total",
			Help: "Total number of session credentials issued by policy",
		}, []string{"policy"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellspring_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		GateDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wellspring_gate_decisions_total",
			Help: "Total number of admin gate decisions by outcome",
		}, []string{"outcome"}),
		SignInDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellspring_signin_duration_ms",
			Help:    "Duration of federated sign-in exchanges in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
	}
}

// Nil-safe helpers so services can carry an optional *Metrics.

func (m *Metrics) IncrementSignIn(outcome string) {
	if m != nil {
		m.SignIns.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncrementSessionsIssued(policy string) {
	if m != nil {
		m.SessionsIssued.WithLabelValues(policy).Inc()
	}
}

func (m *Metrics) IncrementAuthFailures() {
	if m != nil {
		m.AuthFailures.Inc()
	}
}

func (m *Metrics) IncrementGateDecision(outcome string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveSignInDuration(durationMs float64) {
	if m != nil {
		m.SignInDurationMs.Observe(durationMs)
	}
}
