package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
)

// Trace starts a server span per request, continuing any trace propagated by
// the caller. The span is named after the matched route once it is known.
func Trace(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if untraced(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method, trace.WithAttributes(
				semconv.HTTPMethodKey.String(r.Method),
				semconv.HTTPTargetKey.String(r.URL.Path),
				semconv.HTTPUserAgentKey.String(r.UserAgent()),
			), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			if tenant := r.Header.Get(actor.TenantHeader); tenant != "" {
				span.SetAttributes(attribute.String("tenant", tenant))
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := chi.RouteContext(ctx).RoutePattern()
			if route == "" {
				route = "<unknown>"
			}
			span.SetName(r.Method + " " + route)
			span.SetAttributes(semconv.HTTPRouteKey.String(route))

			status := ww.Status()
			span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", status))
			}
		})
	}
}

func untraced(path string) bool {
	return path == MetricsPath || path == HealthPath || path == "/docs" || strings.HasPrefix(path, "/docs/")
}
