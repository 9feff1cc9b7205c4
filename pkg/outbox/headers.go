package outbox

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/correlationid"
)

// BuildHeaders creates the message headers for an outbox record: trace context,
// correlation id, tenant and acting user, all taken from ctx.
func BuildHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{}

	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = correlationID
	}
	if tenant, ok := actor.Tenant(ctx); ok {
		headers[actor.TenantHeader] = tenant
	}
	if user, ok := actor.User(ctx); ok {
		headers[actor.UserHeader] = user
	}

	return headers
}

// ExtractContextFromHeaders is the inverse of BuildHeaders.
func ExtractContextFromHeaders(ctx context.Context, headers map[string]string) context.Context {
	propagator := otel.GetTextMapPropagator()
	ctx = propagator.Extract(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := headers[correlationid.Header]; ok {
		ctx = correlationid.NewContext(ctx, correlationID)
	}
	if tenant, ok := headers[actor.TenantHeader]; ok {
		ctx = actor.WithTenant(ctx, tenant)
	}
	if user, ok := headers[actor.UserHeader]; ok {
		ctx = actor.WithUser(ctx, user)
	}

	return ctx
}

// RecordHeaders flattens Kafka record headers into a map.
func RecordHeaders(rec *kgo.Record) map[string]string {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}
