package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for compliance checks.
type Metrics struct {
	// Check outcomes by kind ("issuance", "transfer") and reason ("allowed" on success)
	CheckOutcome *prometheus.CounterVec
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsledger_compliance_checks_total",
			Help: "Total compliance checks by kind and outcome reason",
		}, []string{"kind", "reason"}),
	}
}

// IncrementCheck records one check outcome. An empty reason is recorded as "allowed".
func (m *Metrics) IncrementCheck(kind, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "allowed"
	}
	m.CheckOutcome.WithLabelValues(kind, reason).Inc()
}
