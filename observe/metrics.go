package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording happens on the lookup hot path.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a Get or Update with its outcome and duration.
	RecordLookup(ctx context.Context, meta LookupMeta, hit bool, duration time.Duration, err error)

	// RecordRefresh records a background refresh tick.
	RecordRefresh(ctx context.Context, meta LookupMeta, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	lookupCount  metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	refreshCount metric.Int64Counter
}

// NewMetrics creates a Metrics instance recording through the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookupCount, err := meter.Int64Counter(
		"cache.lookup.total",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"cache.lookup.errors",
		metric.WithDescription("Total number of failed cache lookups"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.lookup.duration_ms",
		metric.WithDescription("Cache lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	refreshCount, err := meter.Int64Counter(
		"cache.refresh.total",
		metric.WithDescription("Total number of background refresh ticks"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		lookupCount:  lookupCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		refreshCount: refreshCount,
	}, nil
}

// RecordLookup records metrics for one lookup.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta LookupMeta, hit bool, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.definition", meta.Definition),
		attribute.String("cache.op", meta.Op),
		attribute.Bool("cache.hit", hit),
	}
	opt := metric.WithAttributes(attrs...)

	m.lookupCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRefresh records metrics for one background refresh tick.
func (m *metricsImpl) RecordRefresh(ctx context.Context, meta LookupMeta, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.definition", meta.Definition),
		attribute.Bool("cache.refresh.ok", err == nil),
	}
	m.refreshCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// nopMetrics is a metrics implementation that does nothing.
type nopMetrics struct{}

// NewNopMetrics creates a Metrics instance that discards everything. It is
// the default of a cache instance.
func NewNopMetrics() Metrics {
	return &nopMetrics{}
}

func (m *nopMetrics) RecordLookup(ctx context.Context, meta LookupMeta, hit bool, duration time.Duration, err error) {
}

func (m *nopMetrics) RecordRefresh(ctx context.Context, meta LookupMeta, err error) {
}
