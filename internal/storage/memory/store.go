package memory

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store is a concurrency-safe string to string map with deferred expiry.
//
// A Store is created once per process and shared by every connection.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	closed bool

	// Expiry tasks are store-scoped: they outlive the connection that
	// scheduled them and only stop on Close.
	done     chan struct{}
	wg       sync.WaitGroup
	pending  atomic.Int64
	onExpire func(key string)
}

// Option configures the Store.
type Option func(*Store)

// WithExpireHook registers fn to run after a scheduled expiry removes a key.
// fn is not called when the key was already gone at the deadline. It runs
// without the store lock held.
func WithExpireHook(fn func(key string)) Option {
	return func(s *Store) {
		s.onExpire = fn
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		items: make(map[string]string),
		done:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Set inserts or overwrites key.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// SetWithExpiry sets key and schedules its removal after ttl.
//
// The removal is unconditional: if key is overwritten before ttl elapses,
// even by a plain Set, the newer value is removed too.
func (s *Store) SetWithExpiry(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	if s.closed {
		return
	}
	s.wg.Add(1)
	s.pending.Add(1)
	go s.expireAfter(key, ttl)
}

// expireAfter waits outside the lock and removes key once ttl has elapsed.
func (s *Store) expireAfter(key string, ttl time.Duration) {
	defer s.wg.Done()
	defer s.pending.Add(-1)

	timer := time.NewTimer(ttl)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.done:
		return
	}

	if s.Remove(key) && s.onExpire != nil {
		s.onExpire(key)
	}
}

// Get returns the value stored under key.
// A key that was never set and one removed by expiry look the same.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

// Remove deletes key and reports whether it was present.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	delete(s.items, key)
	return ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// PendingExpiries returns the number of scheduled removals not yet run.
func (s *Store) PendingExpiries() int64 {
	return s.pending.Load()
}

// Close cancels pending expiry tasks and waits for them to exit.
// Keys stay readable; later SetWithExpiry calls no longer schedule removal.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
