// Package tracing installs the global OpenTelemetry tracer provider that the
// instrumented store, the bun query hook and the logger read spans from.
package tracing

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes pending spans and stops the exporter.
type ShutdownFunc func() error

// InitGlobalTracer sets the global tracer provider and propagator. Spans are batched
// to an OTLP gRPC collector. When cfg.Disable is set a no-op provider is installed and
// the returned function does nothing.
func InitGlobalTracer(cfg Config, serviceName, serviceVersion string) (ShutdownFunc, error) {
	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(net.JoinHostPort(cfg.ExporterHost, cast.ToString(cfg.ExporterPort))),
		),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tp := NewProvider(cfg, sdktrace.NewBatchSpanProcessor(exporter), serviceName, serviceVersion)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)
	otel.SetTracerProvider(tp)

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(tp.Shutdown(ctx))
	}, nil
}

// NewProvider returns a tracer provider sampling at cfg.SampleRate, exporting through
// processor and describing the service with cfg.Tags.
func NewProvider(
	cfg Config, processor sdktrace.SpanProcessor, serviceName, serviceVersion string,
) *sdktrace.TracerProvider {
	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2)
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	attrs = append(attrs,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	)
}
