package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the staff directory.
type Metrics struct {
	StaffCreated         prometheus.Counter
	StaffUpdated         prometheus.Counter
	UsernameConflicts    prometheus.Counter
	AvailabilityDuration prometheus.Histogram
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StaffCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orgdesk_staff_created_total",
			Help: "Total number of staff records created",
		}),
		StaffUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orgdesk_staff_updated_total",
			Help: "Total number of staff records updated",
		}),
		UsernameConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "orgdesk_staff_username_conflicts_total",
			Help: "Writes rejected because the username was already taken",
		}),
		AvailabilityDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "orgdesk_staff_username_availability_duration_seconds",
			Help:    "Duration of username availability lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementStaffCreated() {
	if m == nil {
		return
	}
	m.StaffCreated.Inc()
}

func (m *Metrics) IncrementStaffUpdated() {
	if m == nil {
		return
	}
	m.StaffUpdated.Inc()
}

func (m *Metrics) IncrementUsernameConflict() {
	if m == nil {
		return
	}
	m.UsernameConflicts.Inc()
}

// ObserveAvailability records the duration of an availability lookup.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAvailability(start time.Time) {
	if m == nil {
		return
	}
	m.AvailabilityDuration.Observe(time.Since(start).Seconds())
}
