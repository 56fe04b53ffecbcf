package store

import (
	"context"
	"sync"
	"time"

	"github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/store/db"
	"github.com/shopspring/decimal"
)

// InMemoryStore implements ProductStore using a map guarded by a mutex.
// Ids come from a counter and are never reused, matching a BIGSERIAL column.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[int64]db.Product
	nextID   int64
	now      func() time.Time
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int64]db.Product),
		nextID:   1,
		now:      time.Now,
	}
}

// FindAll retrieves all products.
func (s *InMemoryStore) FindAll(_ context.Context) ([]db.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]db.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	return list, nil
}

// Create stores a new product and returns it.
func (s *InMemoryStore) Create(_ context.Context, name string, price decimal.Decimal) (*db.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	product := db.Product{
		ID:        s.nextID,
		Name:      name,
		Price:     price.Round(2),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
