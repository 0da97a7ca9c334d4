// Package cache provides an in-process implementation of the cache
// collaborator. It stands in for an external keyed store: entries are
// non-authoritative, may expire, and can be rebuilt from storage.
package cache

import (
	"context"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is a concurrency-safe TTL key-value store implementing
// domain.Cache. A background loop evicts expired entries.
type Store struct {
	mu    sync.RWMutex
	items map[string]entry

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStore creates a Store and starts its cleanup loop with the given
// interval (a non-positive interval disables the loop).
func NewStore(cleanupInterval time.Duration) *Store {
	s := &Store{
		items:  make(map[string]entry),
		stopCh: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanupLoop(cleanupInterval)
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup loop.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, e := range s.items {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(s.items, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ domain.Cache = (*Store)(nil)
