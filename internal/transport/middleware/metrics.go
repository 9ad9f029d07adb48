package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/scholarship-backend/internal/metrics"
)

// Metrics returns middleware that records request count, latency and
// in-flight requests, labelled by the matched route pattern. Requests to
// any of skip are not recorded.
func Metrics(m *metrics.HTTPMetrics, skip ...string) Middleware {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipped[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			sw := newStatusWriter(w)
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				route := r.Pattern
				if route == "" {
					route = "unmatched"
				}
				status := strconv.Itoa(sw.status)
				m.RequestDuration.WithLabelValues(r.Method, route, status).Observe(v)
				m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			}))

			next.ServeHTTP(sw, r)
			timer.ObserveDuration()
		})
	}
}
