package memory

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore keeps memories in a process-local map. It does not survive
// restart; it exists for tests and ephemeral runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	memories map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{memories: make(map[string]string)}
}

func (s *InMemoryStore) Read(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.memories[userID]
	if !ok {
		return "", ErrNotFound
	}
	return content, nil
}

func (s *InMemoryStore) Write(_ context.Context, userID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories[userID] = content
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memories, userID)
	return nil
}

func (s *InMemoryStore) ListUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.memories))
	for id := range s.memories {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

func (s *InMemoryStore) Close() error { return nil }

var _ Store = (*InMemoryStore)(nil)
