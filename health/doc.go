// Package health provides liveness probes for cache store adapters.
//
// An AdapterChecker verifies that an adapter can complete a full
// write/read/delete round trip; an Aggregator combines several checkers
// into one composite status, suitable for embedding into a caller's own
// readiness reporting.
package health
