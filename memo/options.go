package memo

import (
	"time"

	"github.com/jonwraymond/memocache/observe"
	"github.com/jonwraymond/memocache/store"
)

// Option configures a cache instance. Options are applied by New and, after
// construction, by Configure.
type Option func(*Cache)

// WithAdapter sets the store adapter holding the cached values. A nil
// adapter is ignored.
func WithAdapter(a store.Adapter) Option {
	return func(c *Cache) {
		if a != nil {
			c.adapter = a
		}
	}
}

// WithKeyer replaces the key composer. A nil keyer is ignored.
func WithKeyer(k Keyer) Option {
	return func(c *Cache) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithLogger attaches a structured logger. A nil logger is ignored.
func WithLogger(l observe.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a metrics recorder. A nil recorder is ignored.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracer attaches a tracer. A nil tracer is ignored.
func WithTracer(t observe.Tracer) Option {
	return func(c *Cache) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithConnectHook registers a hook invoked by Configure after a new adapter
// is attached, for adapters that need a readiness signal.
func WithConnectHook(fn func(store.Adapter)) Option {
	return func(c *Cache) {
		if fn != nil {
			c.connectHooks = append(c.connectHooks, fn)
		}
	}
}

// DefineOption configures a definition registered through Define.
type DefineOption func(*Definition)

// WithTTL sets the sliding idle-expiration window for the definition's
// entries. Zero means entries never expire by idleness.
func WithTTL(d time.Duration) DefineOption {
	return func(def *Definition) { def.TTL = d }
}

// WithTTR sets the fixed background refresh interval for the definition's
// entries. Zero disables refresh.
func WithTTR(d time.Duration) DefineOption {
	return func(def *Definition) { def.TTR = d }
}
