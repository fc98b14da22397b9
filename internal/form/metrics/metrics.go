package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the form store.
type Metrics struct {
	FormsSaved    prometheus.Counter
	FormsRead     prometheus.Counter
	StorageErrors *prometheus.CounterVec
	OpDuration    *prometheus.HistogramVec
}

// New creates the form metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FormsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "formgate_forms_saved_total",
			Help: "Total number of form records written",
		}),
		FormsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "formgate_forms_read_total",
			Help: "Total number of form records returned",
		}),
		StorageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "formgate_forms_storage_errors_total",
			Help: "Form store backend failures by operation",
		}, []string{"op"}),
		OpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formgate_forms_op_duration_seconds",
			Help:    "Duration of form store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
	}
}

// IncrementSaved records a successful save.
func (m *Metrics) IncrementSaved() {
	m.FormsSaved.Inc()
}

// IncrementRead records a successful read.
func (m *Metrics) IncrementRead() {
	m.FormsRead.Inc()
}

// IncrementStorageError records a backend failure for op.
func (m *Metrics) IncrementStorageError(op string) {
	m.StorageErrors.WithLabelValues(op).Inc()
}

// ObserveOp records how long op took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOp(op string, start time.Time) {
	m.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
