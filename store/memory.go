package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory map adapter. It is the default backend for a cache
// instance and the reference implementation of the Adapter contract.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
	hasExpiry bool
}

// NewMemory creates a new in-memory adapter.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*memoryEntry)}
}

// Get retrieves a value. Entries past their ttlHint are dropped lazily and
// reported as misses.
func (m *Memory) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if entry.hasExpiry && time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores a value. ttlHint <= 0 stores the entry without expiry; the
// engine's timers remain the authoritative eviction mechanism either way.
func (m *Memory) Set(_ context.Context, key string, value any, ttlHint time.Duration) error {
	entry := &memoryEntry{
		value:    value,
		storedAt: time.Now(),
	}
	if ttlHint > 0 {
		entry.expiresAt = entry.storedAt.Add(ttlHint)
		entry.hasExpiry = true
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

// Destroy removes a value. Idempotent - no error on miss.
func (m *Memory) Destroy(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// ID reports the adapter identity.
func (m *Memory) ID() string {
	return "memory"
}

// Len reports the number of live entries, counting entries whose ttlHint
// has passed but which have not been swept yet.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Ensure Memory implements Adapter
var _ Adapter = (*Memory)(nil)
