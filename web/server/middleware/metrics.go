package middleware

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"

	"go.hackfix.me/benchd/metrics"
)

// Instrument records request count, latency and in-flight requests for the
// handler registered as handlerName. The in-progress gauge is decremented even
// if the handler panics.
func Instrument(m *metrics.HTTP, handlerName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inProgress := m.RequestsInProgress.WithLabelValues(r.Method, handlerName)
			inProgress.Inc()
			defer inProgress.Dec()

			snoop := httpsnoop.CaptureMetrics(next, w, r)

			m.RequestsTotal.WithLabelValues(r.Method, handlerName, strconv.Itoa(snoop.Code)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, handlerName).Observe(snoop.Duration.Seconds())
		})
	}
}
