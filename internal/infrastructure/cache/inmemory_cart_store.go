package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/cart"
)

// InMemoryCartStore implements cart.Store over mutex-guarded Cart
// aggregates. Suitable for tests and single-instance development;
// carts do not survive a restart and there is no TTL.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart
}

// NewInMemoryCartStore creates an empty in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[string]*cart.Cart),
	}
}

// loadOrCreate returns the session's cart, creating it if absent.
// Callers must hold the write lock.
func (s *InMemoryCartStore) loadOrCreate(sessionID string) *cart.Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = cart.New(sessionID)
		s.carts[sessionID] = c
	}
	return c
}

// dropIfEmpty evicts a session whose cart has no entries left.
// Callers must hold the write lock.
func (s *InMemoryCartStore) dropIfEmpty(sessionID string, c *cart.Cart) {
	if c.IsEmpty() {
		delete(s.carts, sessionID)
	}
}

// Add increments the entry for productID by quantity
func (s *InMemoryCartStore) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.loadOrCreate(sessionID)
	if err := c.Add(productID, quantity); err != nil {
		s.dropIfEmpty(sessionID, c)
		return err
	}
	return nil
}

// SetQuantity overwrites the entry; non-positive quantities remove it
func (s *InMemoryCartStore) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.loadOrCreate(sessionID)
	err := c.SetQuantity(productID, quantity)
	s.dropIfEmpty(sessionID, c)
	return err
}

// Remove deletes the entry for productID; absent entries are a no-op
func (s *InMemoryCartStore) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[sessionID]; ok {
		c.Remove(productID)
		s.dropIfEmpty(sessionID, c)
	}
	return nil
}

// Clear removes the whole cart
func (s *InMemoryCartStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// Snapshot returns a detached copy of the session's entries
func (s *InMemoryCartStore) Snapshot(ctx context.Context, sessionID string) (cart.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return cart.Snapshot{}, nil
	}
	return c.Snapshot(), nil
}

// ItemCount returns the sum of all quantities for the session
func (s *InMemoryCartStore) ItemCount(ctx context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return 0, nil
	}
	return c.ItemCount(), nil
}

var _ cart.Store = (*InMemoryCartStore)(nil)
