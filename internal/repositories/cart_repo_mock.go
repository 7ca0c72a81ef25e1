package repositories

import (
	"sync"

	"greenbuild/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string][]models.OrderItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string][]models.OrderItem),
	}
}

// List returns the session's cart in insertion order.
func (r *MockCartRepository) List(sessionID string) ([]models.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.OrderItem, len(r.carts[sessionID]))
	copy(items, r.carts[sessionID])
	return items, nil
}

// Append adds an item to the end of the session's cart.
func (r *MockCartRepository) Append(sessionID string, item models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[sessionID] = append(r.carts[sessionID], item)
	return nil
}

// Remove drops the item with itemID. Missing items are ignored.
func (r *MockCartRepository) Remove(sessionID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[sessionID]
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	r.carts[sessionID] = kept
	return nil
}

// Clear empties the session's cart.
func (r *MockCartRepository) Clear(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}
