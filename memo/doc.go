// Package memo provides a keyed, definition-driven memoization cache.
//
// Callers register a named producer function once with Define, then request
// its value by name with Get, optionally parameterized by arguments so one
// producer serves many independent cached values. The engine decides
// whether to answer from the store adapter or invoke the producer again,
// and manages sliding idle expiry (TTL) and fixed-interval background
// refresh (TTR) transparently.
//
// Values live only in the configured store adapter; the engine keeps just
// definitions, timers, and key bookkeeping. Default returns a process-wide
// instance, New builds independent ones.
package memo
