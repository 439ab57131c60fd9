package memo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Producer computes the value for one (name, args) tuple. Producers may
// block on I/O; the engine coalesces concurrent computations per key, so a
// slow producer never runs twice concurrently for the same tuple.
type Producer func(ctx context.Context, args ...any) (any, error)

// Definition couples a named producer with its expiry configuration.
type Definition struct {
	// Name identifies the definition. Required.
	Name string

	// Producer computes values for this name. Required.
	Producer Producer

	// TTL is the sliding idle-expiration window for cached entries. Each
	// access restarts the window. Zero means entries never expire by
	// idleness.
	TTL time.Duration

	// TTR is the fixed interval for background refresh, independent of
	// access patterns. Zero disables refresh.
	TTR time.Duration
}

// invoke runs the producer, converting a panic into the returned error.
// A panic carrying an error value is returned as that error, so the caller
// can still inspect its origin.
func (d *Definition) invoke(ctx context.Context, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("memo: producer for %s panicked: %v", d.Name, r)
		}
	}()
	return d.Producer(ctx, args...)
}

// validate checks a definition before registration.
func (d *Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}
	if d.Producer == nil {
		return ErrNilProducer
	}
	return nil
}

// registry holds the named definitions of one cache instance.
type registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

func newRegistry() *registry {
	return &registry{defs: make(map[string]*Definition)}
}

// put registers or silently replaces a definition.
func (r *registry) put(def *Definition) {
	r.mu.Lock()
	r.defs[def.Name] = def
	r.mu.Unlock()
}

// lookup returns the definition for name, or nil when none is registered.
func (r *registry) lookup(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs[name]
}

// remove drops the definition for name. Idempotent.
func (r *registry) remove(name string) {
	r.mu.Lock()
	delete(r.defs, name)
	r.mu.Unlock()
}

// clear drops every definition.
func (r *registry) clear() {
	r.mu.Lock()
	r.defs = make(map[string]*Definition)
	r.mu.Unlock()
}

// names returns registered definition names in sorted order.
func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
