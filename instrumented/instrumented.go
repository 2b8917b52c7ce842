// Package instrumented decorates a repogen.Store with tracing, metrics and debug
// logging. Every repository operation runs in its own span, feeds a timer named
// "<collection>.<operation>" and, when it fails, a counter named
// "<collection>.<operation>.errors" in a go-metrics registry.
package instrumented

import (
	"context"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/repogen"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rise-and-shine/docrepo/instrumented"

// Store is a repogen.Store whose operations are observed. The builders and the
// collection handle come straight from the inner store.
type Store[E repogen.Entity] struct {
	repogen.Store[E]

	name     string
	tracer   trace.Tracer
	registry metrics.Registry
	log      logger.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	registry       metrics.Registry
	log            logger.Logger
}

// WithTracerProvider sets the provider of the tracer. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithRegistry sets the metrics registry. Defaults to metrics.DefaultRegistry.
func WithRegistry(r metrics.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the logger operations are reported to at debug level.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New wraps inner.
func New[E repogen.Entity](inner repogen.Store[E], opts ...Option) *Store[E] {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		registry:       metrics.DefaultRegistry,
		log:            logger.Named("instrumented"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	name := inner.Collection().Name()
	return &Store[E]{
		Store:    inner,
		name:     name,
		tracer:   o.tracerProvider.Tracer(tracerName),
		registry: o.registry,
		log:      o.log.With("collection", name),
	}
}

// observe starts the span of operation op. The returned function ends it and records
// the outcome.
func (s *Store[E]) observe(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "docrepo."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.collection.name", s.name),
			attribute.String("db.operation.name", op),
		),
	)
	start := time.Now()

	return ctx, func(err error) {
		elapsed := time.Since(start)
		metrics.GetOrRegisterTimer(s.name+"."+op, s.registry).Update(elapsed)

		log := s.log.WithContext(ctx).With("operation", op, "execution_time", elapsed.String())
		if err != nil {
			metrics.GetOrRegisterCounter(s.name+"."+op+".errors", s.registry).Inc(1)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.With("error", err.Error()).Debug("repository operation failed")
		} else {
			log.Debug("repository operation")
		}
		span.End()
	}
}
