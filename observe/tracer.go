package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// LookupMeta describes one cache operation for telemetry purposes.
type LookupMeta struct {
	Definition string // Definition name (required)
	Op         string // Operation: get, update, refresh, expire
	Store      string // Adapter identity (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: cache.<op>.<definition>
func (m LookupMeta) SpanName() string {
	return "cache." + m.Op + "." + m.Definition
}

// Tracer wraps OpenTelemetry tracing with cache-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndLookup must be best-effort and must not panic.
type Tracer interface {
	// StartLookup starts a new span for a cache operation.
	StartLookup(ctx context.Context, meta LookupMeta) (context.Context, trace.Span)

	// EndLookup ends the span, recording any error.
	EndLookup(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartLookup starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartLookup(ctx context.Context, meta LookupMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.definition", meta.Definition),
		attribute.String("cache.op", meta.Op),
		attribute.Bool("cache.error", false), // Will be updated in EndLookup if error
	}
	if meta.Store != "" {
		attrs = append(attrs, attribute.String("cache.store", meta.Store))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndLookup ends the span and records the error status if present.
func (t *tracerImpl) EndLookup(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("cache.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// nopTracer is a tracer that does nothing.
type nopTracer struct {
	noop trace.Tracer
}

// NewNopTracer creates a no-op tracer. It is the default tracer of a cache
// instance.
func NewNopTracer() Tracer {
	return &nopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *nopTracer) StartLookup(ctx context.Context, meta LookupMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *nopTracer) EndLookup(span trace.Span, err error) {
	span.End()
}
