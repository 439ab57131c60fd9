package store

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded in-memory adapter backed by a hashicorp LRU cache. When
// the capacity is reached the least recently used entry is evicted, which
// the engine observes as an ordinary miss on the next lookup.
type LRU struct {
	cache *lru.Cache[string, lruEntry]
}

type lruEntry struct {
	value     any
	expiresAt time.Time
	hasExpiry bool
}

// NewLRU creates a bounded adapter holding at most size entries.
func NewLRU(size int) (*LRU, error) {
	cache, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: cache}, nil
}

// Get retrieves a value and marks it recently used.
func (l *LRU) Get(_ context.Context, key string) (any, bool, error) {
	entry, ok := l.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if entry.hasExpiry && time.Now().After(entry.expiresAt) {
		l.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a value, evicting the least recently used entry when full.
func (l *LRU) Set(_ context.Context, key string, value any, ttlHint time.Duration) error {
	entry := lruEntry{value: value}
	if ttlHint > 0 {
		entry.expiresAt = time.Now().Add(ttlHint)
		entry.hasExpiry = true
	}
	l.cache.Add(key, entry)
	return nil
}

// Destroy removes a value. Idempotent - no error on miss.
func (l *LRU) Destroy(_ context.Context, key string) error {
	l.cache.Remove(key)
	return nil
}

// ID reports the adapter identity.
func (l *LRU) ID() string {
	return "lru"
}

// Len reports the number of entries currently held.
func (l *LRU) Len() int {
	return l.cache.Len()
}

// Ensure LRU implements Adapter
var _ Adapter = (*LRU)(nil)
