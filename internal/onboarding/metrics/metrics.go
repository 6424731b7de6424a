package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for onboarding wizard sessions.
type Metrics struct {
	ActiveSessions     prometheus.Gauge
	SessionsOpened     *prometheus.CounterVec
	SessionsEnded      *prometheus.CounterVec
	StepBlocked        *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	VerificationEvents *prometheus.CounterVec
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "orgdesk_onboarding_active_sessions",
			Help: "Number of open onboarding wizard sessions",
		}),
		SessionsOpened: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_onboarding_sessions_opened_total",
			Help: "Onboarding sessions opened, by mode",
		}, []string{"mode"}),
		SessionsEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_onboarding_sessions_ended_total",
			Help: "Onboarding sessions ended, by outcome (submitted, cancelled, expired)",
		}, []string{"outcome"}),
		StepBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_onboarding_step_blocked_total",
			Help: "Refused wizard moves, by step and reason",
		}, []string{"step", "reason"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_onboarding_submissions_total",
			Help: "Submissions handed to the staff directory, by mode and result",
		}, []string{"mode", "result"}),
		VerificationEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_onboarding_verifications_total",
			Help: "Verification outcomes observed by wizard sessions, by channel and result",
		}, []string{"channel", "result"}),
	}
}

func (m *Metrics) SessionOpened(mode string) {
	if m == nil {
		return
	}
	m.SessionsOpened.WithLabelValues(mode).Inc()
	m.ActiveSessions.Inc()
}

// SessionEnded records a session leaving the registry.
func (m *Metrics) SessionEnded(outcome string) {
	if m == nil {
		return
	}
	m.SessionsEnded.WithLabelValues(outcome).Inc()
	m.ActiveSessions.Dec()
}

func (m *Metrics) IncrementStepBlocked(step int, reason string) {
	if m == nil {
		return
	}
	m.StepBlocked.WithLabelValues(strconv.Itoa(step), reason).Inc()
}

func (m *Metrics) IncrementSubmission(mode, result string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) IncrementVerification(channel, result string) {
	if m == nil {
		return
	}
	m.VerificationEvents.WithLabelValues(channel, result).Inc()
}

