package memo

import "sync"

// The process-wide default instance, created lazily on first use. The
// sync.Once guard makes concurrent first calls observe a single instance.
var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache instance, creating it on first
// use. Handles obtained at different call sites refer to the same instance
// and observe each other's definitions and cache state.
//
// Instances built with New are independent of the default instance and of
// each other: no definitions, entries, or timers are shared. They may still
// share an underlying store adapter when configured with the same one, in
// which case key collisions are the caller's responsibility - the engine
// applies no instance prefixing.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = New()
	})
	return defaultCache
}
