// Package metrics provides observability for the registry module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for registry operations.
type Metrics struct {
	SubmissionsCreated prometheus.Counter
	AmendmentsApplied  prometheus.Counter
	Rejections         *prometheus.CounterVec
	FeeUnitsCollected  prometheus.Counter
}

// New creates metrics registered on the given registerer. Passing a fresh
// registry per instance keeps tests free of duplicate-registration panics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_registry_submissions_created_total",
			Help: "Total need submissions committed to the registry",
		}),
		AmendmentsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_registry_amendments_applied_total",
			Help: "Total amendments applied to existing submissions",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_registry_rejections_total",
			Help: "Total rejected operations by error code",
		}, []string{"operation", "code"}),
		FeeUnitsCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "relief_registry_fee_units_collected_total",
			Help: "Total fee units transferred to the authority",
		}),
	}
}

// IncrementSubmissions records a committed submission.
func (m *Metrics) IncrementSubmissions() {
	if m != nil {
		m.SubmissionsCreated.Inc()
	}
}

// IncrementAmendments records an applied amendment.
func (m *Metrics) IncrementAmendments() {
	if m != nil {
		m.AmendmentsApplied.Inc()
	}
}

// IncrementRejection records a rejected operation by error code.
func (m *Metrics) IncrementRejection(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}

// AddCollectedFee records fee units moved to the authority.
func (m *Metrics) AddCollectedFee(amount uint64) {
	if m != nil {
		m.FeeUnitsCollected.Add(float64(amount))
	}
}
