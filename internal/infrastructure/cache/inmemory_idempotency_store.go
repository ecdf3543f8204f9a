package cache

import (
	"context"
	"sync"
	"time"

	"github.com/budgeterp/backend/internal/domain/shared"
)

const janitorInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps key deadlines in a map. Expired keys
// are treated as absent immediately and reaped by a janitor goroutine.
// Suitable for single-instance deployments and tests; clustered
// deployments use the Redis store.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	deadlines map[string]time.Time

	done      chan struct{}
	janitorWG sync.WaitGroup
	closeOnce sync.Once
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		deadlines: make(map[string]time.Time),
		done:      make(chan struct{}),
	}
	s.janitorWG.Add(1)
	go s.janitor()
	return s
}

// MarkProcessed claims the key for ttl. It reports false when a live
// claim already exists; an expired claim is replaced.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := s.deadlines[key]; ok && now.Before(deadline) {
		return false, nil
	}
	s.deadlines[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	deadline, ok := s.deadlines[key]
	s.mu.RUnlock()

	return ok && time.Now().Before(deadline), nil
}

// Close stops the janitor. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.janitorWG.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) janitor() {
	defer s.janitorWG.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, deadline := range s.deadlines {
				if now.After(deadline) {
					delete(s.deadlines, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
