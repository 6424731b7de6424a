package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Calls       *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	BreakerOpen *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesk_document_verifications_total",
			Help: "Document verification calls by document and outcome",
		}, []string{"document", "outcome"}),
		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgdesk_document_verification_duration_seconds",
			Help:    "Latency of document provider calls including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"document"}),
		BreakerOpen: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orgdesk_document_provider_circuit_open",
			Help: "1 while the provider circuit breaker is open",
		}, []string{"document"}),
	}
}

func (m *Metrics) IncrementCall(doc DocumentType, outcome string) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(string(doc), outcome).Inc()
}

func (m *Metrics) ObserveLatency(doc DocumentType, start time.Time) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(string(doc)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetBreakerOpen(doc DocumentType, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(string(doc)).Set(v)
}
