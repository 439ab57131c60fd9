package memo

import (
	"sync"
	"time"
)

// scheduler owns the TTL and TTR timer handles of one cache instance,
// indexed by storage key. At most one handle of each kind is live per key;
// arming cancels the previous handle before scheduling the next one, so
// redefinition, destruction, and reset never leave a duplicate fire behind.
type scheduler struct {
	mu  sync.Mutex
	ttl map[string]*time.Timer
	ttr map[string]*time.Timer
}

func newScheduler() *scheduler {
	return &scheduler{
		ttl: make(map[string]*time.Timer),
		ttr: make(map[string]*time.Timer),
	}
}

// armTTL schedules fn after d, replacing any live idle-expiry handle for
// the key. Called on write and on every hit, which is what makes the TTL
// slide.
func (s *scheduler) armTTL(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ttl[key]; ok {
		t.Stop()
	}
	s.ttl[key] = time.AfterFunc(d, fn)
}

// armTTR schedules fn after d unless a refresh handle is already live for
// the key. Refresh ticks re-arm through rearmTTR instead.
func (s *scheduler) armTTR(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ttr[key]; ok {
		return
	}
	s.ttr[key] = time.AfterFunc(d, fn)
}

// rearmTTR unconditionally replaces the refresh handle for the key. Used by
// the refresh tick itself to schedule the next interval.
func (s *scheduler) rearmTTR(key string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ttr[key]; ok {
		t.Stop()
	}
	s.ttr[key] = time.AfterFunc(d, fn)
}

// cancel stops and drops both handles for the key.
func (s *scheduler) cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ttl[key]; ok {
		t.Stop()
		delete(s.ttl, key)
	}
	if t, ok := s.ttr[key]; ok {
		t.Stop()
		delete(s.ttr, key)
	}
}

// cancelTTR stops and drops only the refresh handle for the key.
func (s *scheduler) cancelTTR(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.ttr[key]; ok {
		t.Stop()
		delete(s.ttr, key)
	}
}

// cancelAll stops and drops every handle.
func (s *scheduler) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.ttl {
		t.Stop()
		delete(s.ttl, key)
	}
	for key, t := range s.ttr {
		t.Stop()
		delete(s.ttr, key)
	}
}

// live reports whether a handle of the given kind is armed for the key.
// Test hook.
func (s *scheduler) live(key string) (ttl, ttr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ttl = s.ttl[key]
	_, ttr = s.ttr[key]
	return ttl, ttr
}
