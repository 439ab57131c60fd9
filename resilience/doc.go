// Package resilience provides decorators that harden cache producers
// against flaky origins.
//
// Producers are the boundary where a memoization cache meets slow or
// failing backends: WithRetry re-attempts transient failures with backoff,
// WithTimeout bounds how long one computation may run, and a Breaker stops
// hammering an origin that keeps failing. The decorators compose; the
// engine sees an ordinary producer and its error contract is unchanged -
// whatever error the decorated chain returns is what callers observe.
package resilience
