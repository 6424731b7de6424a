package challenge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts challenge outcomes per channel.
type Metrics struct {
	Sent      *prometheus.CounterVec
	Confirmed *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Sent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_verification_challenges_sent_total",
			Help: "Verification codes issued",
		}, []string{"channel"}),
		Confirmed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_verification_challenges_confirmed_total",
			Help: "Verification codes confirmed",
		}, []string{"channel"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_verification_challenges_rejected_total",
			Help: "Verification code confirmations rejected, by reason",
		}, []string{"channel", "reason"}),
	}
}

func (m *Metrics) IncrementSent(channel Channel) {
	if m == nil {
		return
	}
	m.Sent.WithLabelValues(string(channel)).Inc()
}

func (m *Metrics) IncrementConfirmed(channel Channel) {
	if m == nil {
		return
	}
	m.Confirmed.WithLabelValues(string(channel)).Inc()
}

func (m *Metrics) IncrementRejected(channel Channel, reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(string(channel), reason).Inc()
}
