// Package memstore is a small in-memory key-value store with per-entry
// TTL and an injectable clock, backing the caching interceptor.
package memstore

import (
	"sync"
	"time"
)

// Clock supplies the current time. Tests substitute a fake to step
// through expiry windows deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc is a function adapter for Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a TTL key-value store, safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   Clock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the store's time source.
func WithClock(clock Clock) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty store using the system clock unless overridden.
func New(options ...StoreOption) *Store {
	s := &Store{
		entries: make(map[string]entry),
		clock:   systemClock{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Set stores value under key for ttl. A non-positive ttl means the entry
// never expires.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.clock.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Get returns the live value stored under key. Expired entries are
// removed on access.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another caller may have replaced
		// the entry since the read.
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of entries, including any not yet purged.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
