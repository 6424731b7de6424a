package challenge

import (
	"context"
	"sync"

	"orgdesk/pkg/platform/sentinel"
)

// InMemoryStore keeps challenges in process memory. Expiry is enforced by
// the service against Challenge.ExpiresAt.
type InMemoryStore struct {
	mu    sync.Mutex
	items map[Key]Challenge
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[Key]Challenge)}
}

func (s *InMemoryStore) Save(_ context.Context, c Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.Key()] = c
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key Key) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) IncrementAttempts(_ context.Context, key Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[key]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	c.Attempts++
	s.items[key] = c
	return c.Attempts, nil
}

func (s *InMemoryStore) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
