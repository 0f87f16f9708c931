package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the token ledger.
type Metrics struct {
	// Mutating operations by name and outcome ("committed", "rejected")
	Operations *prometheus.CounterVec

	// Rejections by operation and domain error code
	Rejections *prometheus.CounterVec

	// Time spent inside the ledger lock per operation
	OperationLatency *prometheus.HistogramVec

	Holders     prometheus.Gauge
	TotalIssued prometheus.Gauge
	Paused      prometheus.Gauge

	// Audit events that could not be handed to the sink
	AuditDropped prometheus.Counter
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the ledger collectors with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsledger_ledger_operations_total",
			Help: "Total mutating ledger operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dsledger_ledger_rejections_total",
			Help: "Rejected ledger operations by operation and error code",
		}, []string{"operation", "code"}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dsledger_ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations including lock wait",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),

		Holders: f.NewGauge(prometheus.GaugeOpts{
			Name: "dsledger_ledger_holders",
			Help: "Number of wallets with a positive balance",
		}),

		TotalIssued: f.NewGauge(prometheus.GaugeOpts{
			Name: "dsledger_ledger_total_issued_base_units",
			Help: "Total issued supply in base units (float approximation)",
		}),

		Paused: f.NewGauge(prometheus.GaugeOpts{
			Name: "dsledger_ledger_paused",
			Help: "1 while the token is paused",
		}),

		AuditDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "dsledger_ledger_audit_dropped_total",
			Help: "Audit events the sink refused",
		}),
	}
}

// ObserveOperation records an operation's outcome and duration.
func (m *Metrics) ObserveOperation(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, outcome).Inc()
	m.OperationLatency.WithLabelValues(op).Observe(d.Seconds())
}

// IncrementRejection records a rejected operation by error code.
func (m *Metrics) IncrementRejection(op, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(op, code).Inc()
	}
}

// SetSupply updates the supply gauges.
func (m *Metrics) SetSupply(holders int, totalIssued float64, paused bool) {
	if m == nil {
		return
	}
	m.Holders.Set(float64(holders))
	m.TotalIssued.Set(totalIssued)
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}
}

// IncrementAuditDropped records an audit event the sink refused.
func (m *Metrics) IncrementAuditDropped() {
	if m != nil {
		m.AuditDropped.Inc()
	}
}
