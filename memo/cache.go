package memo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/memocache/observe"
	"github.com/jonwraymond/memocache/store"
)

// Cache is one memoization instance: a definition registry, a timer
// scheduler, and a reference to the store adapter that holds the values.
// The adapter is the sole source of truth for cached data; the instance
// keeps only definitions, timer handles, and key bookkeeping.
//
// Contract:
// - Concurrency: safe for concurrent use. Computations for one key are
//   coalesced; requests for different keys never block one another.
// - Errors: producer and store errors surface unchanged, and every
//   operation completes exactly once with a value or an error.
type Cache struct {
	mu      sync.RWMutex
	adapter store.Adapter
	keyer   Keyer
	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	defs   *registry
	sched  *scheduler
	flight singleflight.Group

	// entries tracks name -> key -> argument tuple so Destroy and Clear can
	// evict every argument variant and background refresh can re-invoke the
	// producer. Values themselves live only in the adapter.
	entries map[string]map[string][]any

	connectHooks []func(store.Adapter)
}

// New constructs an independent cache instance. With no options it uses an
// in-memory adapter, the default keyer, and no telemetry.
func New(opts ...Option) *Cache {
	c := &Cache{
		keyer:   NewDefaultKeyer(),
		logger:  observe.NewNopLogger(),
		metrics: observe.NewNopMetrics(),
		tracer:  observe.NewNopTracer(),
		defs:    newRegistry(),
		sched:   newScheduler(),
		entries: make(map[string]map[string][]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.adapter == nil {
		c.adapter = store.NewMemory()
	}
	return c
}

// Define registers name with producer, silently replacing any previous
// definition. Replacing cancels refresh timers armed for the name's entries
// under the old definition; redefining a name is the designed way to stop a
// runaway refresh timer. Cached entries survive redefinition and are served
// until they expire or are cleared.
func (c *Cache) Define(name string, producer Producer, opts ...DefineOption) error {
	def := Definition{Name: name, Producer: producer}
	for _, opt := range opts {
		opt(&def)
	}
	return c.Register(def)
}

// Register registers or replaces a definition. See Define.
func (c *Cache) Register(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	for key := range c.entries[def.Name] {
		c.sched.cancelTTR(key)
	}
	c.mu.Unlock()

	c.defs.put(&def)
	c.currentLogger().Debug(context.Background(), "definition registered",
		observe.Field{Key: "definition", Value: def.Name},
		observe.Field{Key: "ttl", Value: def.TTL.String()},
		observe.Field{Key: "ttr", Value: def.TTR.String()})
	return nil
}

// Get returns the value for the (name, args) tuple, invoking the producer
// only when the adapter holds no entry. A hit slides the definition's TTL
// window from this access. Adapter read failures are returned unchanged,
// never masked as misses.
func (c *Cache) Get(ctx context.Context, name string, args ...any) (any, error) {
	start := time.Now()
	meta := observe.LookupMeta{Definition: name, Op: "get", Store: c.currentAdapter().ID()}
	tracer, metrics := c.currentTracer(), c.currentMetrics()
	ctx, span := tracer.StartLookup(ctx, meta)

	var (
		value any
		hit   bool
		err   error
	)
	defer func() {
		tracer.EndLookup(span, err)
		metrics.RecordLookup(ctx, meta, hit, time.Since(start), err)
	}()

	var key string
	key, err = c.composeKey(name, args)
	if err != nil {
		return nil, err
	}

	value, hit, err = c.currentAdapter().Get(ctx, key)
	if err != nil {
		// Backend failure, not a miss.
		return nil, err
	}
	if hit {
		c.touch(name, key, args)
		return value, nil
	}

	value, err = c.fill(ctx, name, key, args)
	return value, err
}

// Update forces recomputation for the tuple, bypassing any cached value,
// and re-arms the entry's timers. Like Get it fails with ErrNoDefinition
// when the name is not defined.
func (c *Cache) Update(ctx context.Context, name string, args ...any) (any, error) {
	start := time.Now()
	meta := observe.LookupMeta{Definition: name, Op: "update", Store: c.currentAdapter().ID()}
	tracer, metrics := c.currentTracer(), c.currentMetrics()
	ctx, span := tracer.StartLookup(ctx, meta)

	var (
		value any
		err   error
	)
	defer func() {
		tracer.EndLookup(span, err)
		metrics.RecordLookup(ctx, meta, false, time.Since(start), err)
	}()

	var key string
	key, err = c.composeKey(name, args)
	if err != nil {
		return nil, err
	}

	value, err = c.fill(ctx, name, key, args)
	return value, err
}

// composeKey derives the storage key and vets it against the adapter
// contract, so a misbehaving custom keyer fails the operation instead of
// corrupting the backend's key space.
func (c *Cache) composeKey(name string, args []any) (string, error) {
	key, err := c.currentKeyer().Key(name, args)
	if err != nil {
		return "", err
	}
	if err := store.ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// fill computes the tuple's value through the in-flight group: the first
// request for a key starts the producer, and every request arriving before
// it completes observes the same outcome.
func (c *Cache) fill(ctx context.Context, name, key string, args []any) (any, error) {
	value, err, _ := c.flight.Do(key, func() (any, error) {
		def := c.defs.lookup(name)
		if def == nil {
			return nil, fmt.Errorf("%w for %s", ErrNoDefinition, name)
		}

		value, err := def.invoke(ctx, args)
		if err != nil {
			// Producer error, surfaced verbatim.
			return nil, err
		}

		// No backend ttlHint: idle expiry slides with each access, and a
		// fixed backend expiry from write time would undercut the window.
		// The engine's timers own eviction.
		if err := c.currentAdapter().Set(ctx, key, value, 0); err != nil {
			// Store error, surfaced verbatim.
			return nil, err
		}

		c.arm(def, name, key, args)
		return value, nil
	})
	return value, err
}

// touch records a hit: the entry is (re-)tracked and its timers are armed,
// which slides the TTL window from this access. Entries that predate this
// process (shared adapter) become tracked here.
func (c *Cache) touch(name, key string, args []any) {
	def := c.defs.lookup(name)
	if def == nil {
		return
	}
	c.arm(def, name, key, args)
}

// arm records the entry and schedules its timers. The TTL handle is always
// replaced (sliding expiry); the TTR handle is armed only when none is
// running for the key.
func (c *Cache) arm(def *Definition, name, key string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.entries[name]
	if !ok {
		keys = make(map[string][]any)
		c.entries[name] = keys
	}
	keys[key] = args

	if def.TTL > 0 {
		c.sched.armTTL(key, def.TTL, func() { c.expire(name, key) })
	}
	if def.TTR > 0 {
		c.sched.armTTR(key, def.TTR, func() { c.refresh(name, key, args) })
	}
}

// trackedKey reports whether the entry is still known to the instance.
func (c *Cache) trackedKey(name, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name][key]
	return ok
}

// untrack forgets the entry. The adapter value, if any, is the caller's
// concern.
func (c *Cache) untrack(name, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if keys, ok := c.entries[name]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.entries, name)
		}
	}
}

// expire is the TTL fire path: the entry idled through a full window, so it
// is evicted from the adapter and its refresh handle is cancelled. The next
// Get recomputes.
func (c *Cache) expire(name, key string) {
	ctx := context.Background()
	c.untrack(name, key)
	c.sched.cancel(key)
	if err := c.currentAdapter().Destroy(ctx, key); err != nil {
		c.currentLogger().Warn(ctx, "idle expiry failed to evict entry",
			observe.Field{Key: "definition", Value: name},
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()})
	}
}

// refresh is the TTR fire path: re-invoke the current producer for the
// recorded tuple, rewrite the adapter value, and schedule the next tick.
// It stops once the entry or the definition is gone.
func (c *Cache) refresh(name, key string, args []any) {
	ctx := context.Background()
	meta := observe.LookupMeta{Definition: name, Op: "refresh"}

	def := c.defs.lookup(name)
	if def == nil || def.TTR <= 0 || !c.trackedKey(name, key) {
		c.sched.cancelTTR(key) // drop the fired handle
		return
	}

	// The recompute goes through the same in-flight group as the miss path,
	// so a refresh tick never runs the producer concurrently with a lookup
	// for the same key; whoever arrives second shares the outcome.
	_, err, _ := c.flight.Do(key, func() (any, error) {
		value, err := def.invoke(ctx, args)
		if err != nil {
			return nil, err
		}
		return value, c.currentAdapter().Set(ctx, key, value, 0)
	})
	if err == nil && !c.trackedKey(name, key) {
		// The entry was destroyed while the refresh was writing; undo
		// the write so the eviction stays effective.
		_ = c.currentAdapter().Destroy(ctx, key)
		c.sched.cancelTTR(key)
		c.currentMetrics().RecordRefresh(ctx, meta, nil)
		return
	}
	if err != nil {
		c.currentLogger().Warn(ctx, "background refresh failed",
			observe.Field{Key: "definition", Value: name},
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "error", Value: err.Error()})
	}
	c.currentMetrics().RecordRefresh(ctx, meta, err)

	// Schedule the next interval; a failed tick re-arms too, refresh runs
	// until the entry or the definition goes away.
	c.mu.Lock()
	if _, ok := c.entries[name][key]; ok {
		c.sched.rearmTTR(key, def.TTR, func() { c.refresh(name, key, args) })
	} else {
		c.sched.cancelTTR(key)
	}
	c.mu.Unlock()
}

// Clear evicts the name's entries across every argument variant and cancels
// their timers, keeping the definition. found reports whether any entry
// existed before eviction.
func (c *Cache) Clear(ctx context.Context, name string) (found bool, err error) {
	c.mu.Lock()
	keys := c.entries[name]
	delete(c.entries, name)
	for key := range keys {
		c.sched.cancel(key)
	}
	adapter := c.adapter
	c.mu.Unlock()

	var errs []error
	for key := range keys {
		if err := adapter.Destroy(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return len(keys) > 0, errors.Join(errs...)
}

// Flush evicts every entry of the instance, preserving all definitions.
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]map[string][]any)
	c.sched.cancelAll()
	adapter := c.adapter
	c.mu.Unlock()

	var errs []error
	for _, keys := range entries {
		for key := range keys {
			if err := adapter.Destroy(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Destroy removes the definition and evicts every entry keyed under name,
// cancelling their timers. Get and Update fail with ErrNoDefinition until
// the name is redefined. Other names' definitions and entries are not
// affected.
func (c *Cache) Destroy(ctx context.Context, name string) error {
	c.defs.remove(name)
	_, err := c.Clear(ctx, name)
	return err
}

// Reset returns the instance to a pristine state: all definitions, entries,
// and timers are dropped. It returns the instance so calls can chain.
func (c *Cache) Reset() *Cache {
	ctx := context.Background()
	if err := c.Flush(ctx); err != nil {
		c.currentLogger().Warn(ctx, "reset failed to evict some entries",
			observe.Field{Key: "error", Value: err.Error()})
	}
	c.defs.clear()
	return c
}

// Configure applies options after construction, typically to swap the
// store adapter. A swap cancels every timer and drops the entry bookkeeping
// tied to the previous adapter, then invokes the registered connect hooks
// with the new adapter as their readiness signal.
func (c *Cache) Configure(opts ...Option) *Cache {
	c.mu.Lock()
	prev := c.adapter
	for _, opt := range opts {
		opt(c)
	}
	next := c.adapter
	swapped := next != prev
	if swapped {
		c.sched.cancelAll()
		c.entries = make(map[string]map[string][]any)
	}
	hooks := make([]func(store.Adapter), len(c.connectHooks))
	copy(hooks, c.connectHooks)
	c.mu.Unlock()

	if swapped {
		for _, hook := range hooks {
			hook(next)
		}
	}
	return c
}

// Adapter returns the store adapter currently attached to the instance.
func (c *Cache) Adapter() store.Adapter {
	return c.currentAdapter()
}

// Definitions returns the registered definition names in sorted order.
func (c *Cache) Definitions() []string {
	return c.defs.names()
}

// The option fields can be swapped by Configure while lookups are running,
// so every read outside c.mu goes through one of these accessors.

func (c *Cache) currentAdapter() store.Adapter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adapter
}

func (c *Cache) currentKeyer() Keyer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keyer
}

func (c *Cache) currentLogger() observe.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

func (c *Cache) currentMetrics() observe.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

func (c *Cache) currentTracer() observe.Tracer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracer
}
