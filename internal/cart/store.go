package cart

import (
	"context"
	"sync"
)

// Store hands out one Cart per visitor session, hydrating each from the
// backend on first touch. Instances are explicitly constructed so tests
// can run isolated stores; nothing here is process-global.
type Store struct {
	backend Backend
	hooks   Hooks

	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore(backend Backend, hooks Hooks) *Store {
	return &Store{
		backend: backend,
		hooks:   hooks,
		carts:   map[string]*Cart{},
	}
}

// Cart returns the cart for the session, creating and hydrating it when
// first seen.
func (s *Store) Cart(ctx context.Context, sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c := New(ctx, sessionID, s.backend, s.hooks)
	s.carts[sessionID] = c
	return c
}

// Evict drops the in-memory cart for a session. The persisted snapshot
// is untouched; the next access rehydrates.
func (s *Store) Evict(sessionID string) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
}
