package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Shaikat-CSE/goldennicheims/internal/http/metric"
)

const (
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// Metrics records request counts and latencies labelled by route pattern, so
// ids in paths do not create new series.
func Metrics(m *metric.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == MetricsPath || r.URL.Path == HealthPath {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t1 := time.Now()

			m.InflightRequests.Inc()
			defer m.InflightRequests.Dec()

			next.ServeHTTP(ww, r)

			duration := time.Since(t1).Seconds()
			route := "<unknown>"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(duration)
		})
	}
}
