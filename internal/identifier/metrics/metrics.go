package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identifier registry.
type Metrics struct {
	IDsAdded        prometheus.Counter
	IDsRemoved      prometheus.Counter
	PersistFailures *prometheus.CounterVec
	RegistrySize    prometheus.Gauge
}

// New creates the registry metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IDsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "formgate_identifiers_added_total",
			Help: "Total number of identifiers registered",
		}),
		IDsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "formgate_identifiers_removed_total",
			Help: "Total number of identifiers deregistered",
		}),
		PersistFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_identifiers_persist_failures_total",
			Help: "Registry writes that failed after the in-memory change was applied",
		}, []string{"op"}),
		RegistrySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "formgate_identifiers_registered",
			Help: "Number of identifiers currently registered",
		}),
	}
}

// IncrementAdded records a successful registration.
func (m *Metrics) IncrementAdded() {
	m.IDsAdded.Inc()
}

// IncrementRemoved records a successful deregistration.
func (m *Metrics) IncrementRemoved() {
	m.IDsRemoved.Inc()
}

// IncrementPersistFailure records a failed registry write for op.
func (m *Metrics) IncrementPersistFailure(op string) {
	m.PersistFailures.WithLabelValues(op).Inc()
}

// SetSize records the current registry size.
func (m *Metrics) SetSize(n int) {
	m.RegistrySize.Set(float64(n))
}
