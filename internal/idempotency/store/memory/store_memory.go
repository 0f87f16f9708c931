package memory

import (
	"context"
	"sync"
	"time"

	"dsledger/pkg/platform/sentinel"
)

// InMemoryStore reserves idempotency keys in process memory. Keys are not
// shared between replicas; use the Redis store when running more than one.
type InMemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

func New() *InMemoryStore {
	return &InMemoryStore{keys: make(map[string]time.Time), now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *InMemoryStore {
	s := New()
	s.now = now
	return s
}

// Reserve claims key for ttl. It fails with sentinel.ErrConflict while an
// earlier reservation is live.
func (s *InMemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.keys[key]; ok && now.Before(exp) {
		return sentinel.ErrConflict
	}
	s.keys[key] = now.Add(ttl)
	s.sweep(now)
	return nil
}

func (s *InMemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

// sweep drops expired keys once the map has grown.
func (s *InMemoryStore) sweep(now time.Time) {
	if len(s.keys) < 1024 {
		return
	}
	for k, exp := range s.keys {
		if !now.Before(exp) {
			delete(s.keys, k)
		}
	}
}
