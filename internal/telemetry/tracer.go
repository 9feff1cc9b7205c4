// Package telemetry configures the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"google.golang.org/grpc/credentials"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
)

type CleanupFunc func(ctx context.Context) error

// InitTracer installs the W3C propagators and, when a collector URL is
// configured, a batching tracer provider exporting over OTLP gRPC.
func InitTracer(ctx context.Context, cfg config.Otel) (CleanupFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.CollectorURL == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(clientOptions(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(resourceAttributes(cfg)...),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceIDRatio))),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func clientOptions(cfg config.Otel) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorURL)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}
	if cfg.CollectorAuth != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(map[string]string{
			"Authorization": cfg.CollectorAuth,
		}))
	}
	return opts
}

func resourceAttributes(cfg config.Otel) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceNameKey.String(cfg.ServiceName)}
	if cfg.K8sPodName != "" {
		attrs = append(attrs, semconv.K8SPodNameKey.String(cfg.K8sPodName))
	}
	if cfg.K8sNamespace != "" {
		attrs = append(attrs, semconv.K8SNamespaceNameKey.String(cfg.K8sNamespace))
	}
	return attrs
}
