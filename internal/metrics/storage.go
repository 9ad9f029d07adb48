package metrics

import "github.com/prometheus/client_golang/prometheus"

// StorageMetrics tracks the record store and its backend.
type StorageMetrics struct {
	Conflicts  prometheus.Counter
	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
	DialErrors prometheus.Counter
}

// NewStorageMetrics creates and registers storage metrics on the given registry.
func NewStorageMetrics(reg prometheus.Registerer) *StorageMetrics {
	m := &StorageMetrics{
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "conflicts_total",
			Help:      "Total number of version conflicts that caused a retry.",
		}),
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "backend_operations_total",
			Help:      "Total backend operations by operation and status.",
		}, []string{"operation", "status"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "backend_operation_duration_seconds",
			Help:      "Backend operation duration in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DialErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "backend_dial_errors_total",
			Help:      "Total backend connection errors.",
		}),
	}

	reg.MustRegister(m.Conflicts, m.OpsTotal, m.OpDuration, m.DialErrors)
	return m
}

// Observe records one backend operation.
func (m *StorageMetrics) Observe(operation string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.OpsTotal.WithLabelValues(operation, status).Inc()
	m.OpDuration.WithLabelValues(operation).Observe(seconds)
}
