package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Package session keeps per-browser UI state in memory. Entries expire after
// an idle TTL; nothing is persisted.

// Options controls retention.
type Options struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Retention used when Options leave a field zero.
const (
	DefaultIdleTTL       = 2 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

type entry[V any] struct {
	value      V
	lastAccess time.Time
}

// Store maps session keys to values with idle expiry.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]

	idleTTL       time.Duration
	sweepInterval time.Duration
	lastSweep     atomic.Int64
	now           func() time.Time
	onEvict       func(key string, value V)
}

// NewStore builds an empty store. Non-positive options fall back to defaults.
func NewStore[V any](opts Options) *Store[V] {
	opts = normalizeOptions(opts)
	s := &Store[V]{
		entries:       make(map[string]*entry[V]),
		idleTTL:       opts.IdleTTL,
		sweepInterval: opts.SweepInterval,
		now:           time.Now,
	}
	s.lastSweep.Store(s.now().UnixNano())
	return s
}

// OnEvict registers fn to run for every entry that expires or is deleted. fn
// runs without the store lock held.
func (s *Store[V]) OnEvict(fn func(key string, value V)) {
	s.mu.Lock()
	s.onEvict = fn
	s.mu.Unlock()
}

func normalizeOptions(opts Options) Options {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	return opts
}

// Get returns the live value for key and refreshes its idle timer.
func (s *Store[V]) Get(key string) (V, bool) {
	now := s.now()
	s.maybeSweep(now)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	if s.expired(e, now) {
		delete(s.entries, key)
		fn := s.onEvict
		s.mu.Unlock()
		s.evicted(fn, map[string]V{key: e.value})
		var zero V
		return zero, false
	}
	e.lastAccess = now
	s.mu.Unlock()
	return e.value, true
}

// GetOrCreate returns the live value for key, or stores the one built by
// create. created reports whether create ran. create runs under the store
// lock and must not block on I/O.
func (s *Store[V]) GetOrCreate(key string, create func() (V, error)) (value V, created bool, err error) {
	now := s.now()
	s.maybeSweep(now)

	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && !s.expired(e, now) {
		e.lastAccess = now
		s.mu.Unlock()
		return e.value, false, nil
	}
	fn := s.onEvict
	defer func() {
		if ok {
			s.evicted(fn, map[string]V{key: e.value})
		}
	}()
	defer s.mu.Unlock()
	if ok {
		delete(s.entries, key)
	}

	value, err = create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	s.entries[key] = &entry[V]{value: value, lastAccess: now}
	return value, true, nil
}

// Delete drops key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	fn := s.onEvict
	s.mu.Unlock()
	if ok {
		s.evicted(fn, map[string]V{key: e.value})
	}
}

// Len reports the number of stored entries, expired or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store[V]) Sweep() int {
	now := s.now()
	removed := s.sweep(now)
	s.lastSweep.Store(now.UnixNano())
	return removed
}

// maybeSweep runs a sweep at most once per interval so access alone keeps the
// map bounded.
func (s *Store[V]) maybeSweep(now time.Time) {
	last := time.Unix(0, s.lastSweep.Load())
	if now.Sub(last) < s.sweepInterval {
		return
	}
	if !s.lastSweep.CompareAndSwap(last.UnixNano(), now.UnixNano()) {
		return
	}
	s.sweep(now)
}

func (s *Store[V]) sweep(now time.Time) int {
	s.mu.Lock()
	gone := make(map[string]V)
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
			gone[key] = e.value
		}
	}
	fn := s.onEvict
	s.mu.Unlock()

	s.evicted(fn, gone)
	return len(gone)
}

func (s *Store[V]) evicted(fn func(string, V), gone map[string]V) {
	if fn == nil {
		return
	}
	for key, v := range gone {
		fn(key, v)
	}
}

func (s *Store[V]) expired(e *entry[V], now time.Time) bool {
	return now.Sub(e.lastAccess) >= s.idleTTL
}
