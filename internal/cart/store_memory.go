package cart

import (
	"sync"
	"time"

	"CartBridge/internal/pricing"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Cart
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Cart{}}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Get(contextID string) (Cart, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.m[contextID]
	if !ok {
		return Cart{}, false, nil
	}

	// Copy the item slice so callers can't reach into the store.
	c.Items = append([]Item(nil), c.Items...)
	return c, true, nil
}

// UpsertItems merges a batch into the cart, creating it if absent.
// Per sku: a non-positive quantity removes the line, otherwise the
// quantity is overwritten; later batch entries win over earlier ones.
// Untouched skus are preserved in their original order.
func (s *MemStore) UpsertItems(contextID string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.m[contextID]
	if !ok {
		c = Cart{
			ContextID: contextID,
			Currency:  pricing.Currency,
			Status:    StatusOpen,
		}
	}

	for _, it := range items {
		idx := indexOf(c.Items, it.SKU)
		switch {
		case it.Quantity <= 0:
			if idx >= 0 {
				c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			}
		case idx >= 0:
			c.Items[idx].Quantity = it.Quantity
		default:
			c.Items = append(c.Items, Item{SKU: it.SKU, Quantity: it.Quantity})
		}
	}

	c.UpdatedAt = time.Now()
	s.m[contextID] = c
	return nil
}

func (s *MemStore) RemoveItem(contextID, sku string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.m[contextID]
	if !ok {
		return false, nil
	}

	idx := indexOf(c.Items, sku)
	if idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}

	c.UpdatedAt = time.Now()
	s.m[contextID] = c
	return idx >= 0, nil
}

func (s *MemStore) SetStatus(contextID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.m[contextID]
	if !ok {
		return nil
	}

	c.Status = status
	c.UpdatedAt = time.Now()
	s.m[contextID] = c
	return nil
}

func indexOf(items []Item, sku string) int {
	for i, it := range items {
		if it.SKU == sku {
			return i
		}
	}
	return -1
}
