// Package observe provides observability primitives for cache operations.
//
// It is a pure instrumentation library: no caching, no storage, no I/O
// beyond exporter setup. Consumers wire the logger, metrics, and tracer
// into a memo.Cache through its options.
package observe
