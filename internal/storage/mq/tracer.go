package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// kotelHooks traces produce and fetch with the global provider, which is
// resolved lazily so clients built before InitTracer still export spans.
func kotelHooks() kgo.Opt {
	kt := kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
	)
	return kgo.WithHooks(kotel.NewKotel(kotel.WithTracer(kt)).Hooks()...)
}
