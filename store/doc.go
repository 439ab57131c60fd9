// Package store defines the key/value backend contract the cache engine
// depends on, plus a set of concrete adapters: in-memory map, bounded LRU,
// file system, and Redis.
//
// The engine treats the adapter as the sole source of truth for cached
// values; adapters hold data, never definitions or timers.
package store
