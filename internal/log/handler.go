package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/correlationid"
)

var _ slog.Handler = (*enrichedHandler)(nil)

// enrichedHandler adds the request's correlation id, tenant, acting user
// and span to every record logged with a context.
type enrichedHandler struct {
	h slog.Handler
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{h: h}
}

func (eh enrichedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return eh.h.Enabled(ctx, level)
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	if correlationID, ok := correlationid.FromContext(ctx); ok {
		r.Add("correlation_id", slog.StringValue(correlationID))
	}

	if tenant, ok := actor.Tenant(ctx); ok {
		r.Add("tenant", slog.StringValue(tenant))
	}

	if user, ok := actor.User(ctx); ok {
		r.Add("user", slog.StringValue(user))
	}

	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if spanCtx.IsValid() {
		r.Add("trace_id", slog.StringValue(spanCtx.TraceID().String()))
		r.Add("span_id", slog.StringValue(spanCtx.SpanID().String()))
	}

	return eh.h.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newEnrichedHandler(eh.h.WithAttrs(attrs))
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return newEnrichedHandler(eh.h.WithGroup(name))
}
