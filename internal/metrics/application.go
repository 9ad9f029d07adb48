package metrics

import "github.com/prometheus/client_golang/prometheus"

// ApplicationMetrics counts application lifecycle events.
type ApplicationMetrics struct {
	Submitted prometheus.Counter
	Reviewed  *prometheus.CounterVec
	Deleted   prometheus.Counter
	Cleared   prometheus.Counter
	Exports   *prometheus.CounterVec
}

// NewApplicationMetrics creates and registers application metrics on the given registry.
func NewApplicationMetrics(reg prometheus.Registerer) *ApplicationMetrics {
	m := &ApplicationMetrics{
		Submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "Total number of accepted application submissions.",
		}),
		Reviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "reviewed_total",
			Help:      "Total number of review decisions, by resulting status.",
		}, []string{"status"}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "deleted_total",
			Help:      "Total number of applications removed, including clear-all.",
		}),
		Cleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "clears_total",
			Help:      "Total number of clear-all operations.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "exports_total",
			Help:      "Total number of exports, by format.",
		}, []string{"format"}),
	}

	reg.MustRegister(m.Submitted, m.Reviewed, m.Deleted, m.Cleared, m.Exports)
	return m
}
