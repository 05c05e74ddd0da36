package store

import (
	"context"
	"iter"
	"slices"
	"sync"
)

// inMemory implements ProductStore using an ordered in-memory slice.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
	nextID   IDGenerator
}

// Option configures the in-memory store.
type Option func(*inMemory)

// WithIDGenerator sets the generator used for products created without an ID.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *inMemory) {
		if gen != nil {
			s.nextID = gen
		}
	}
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore(opts ...Option) ProductStore {
	s := &inMemory{
		products: make([]Product, 0),
		nextID:   NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a product and returns it with its ID populated.
// Generated IDs skip values already taken; an explicit ID that is already stored
// overwrites that record in place.
func (s *inMemory) Create(_ context.Context, product Product) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = s.nextID()
		for s.indexOf(product.ID) >= 0 {
			product.ID = s.nextID()
		}
	} else if i := s.indexOf(product.ID); i >= 0 {
		s.products[i] = product
		return product
	}
	s.products = append(s.products, product)
	return product
}

// FindAll returns a sequence over a snapshot of all products.
func (s *inMemory) FindAll(_ context.Context) iter.Seq[Product] {
	s.mu.RLock()
	snapshot := slices.Clone(s.products)
	s.mu.RUnlock()

	return slices.Values(snapshot)
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

// Replace overwrites name and quantity of the product with the same ID, keeping its position.
func (s *inMemory) Replace(_ context.Context, product Product) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(product.ID)
	if i < 0 {
		return Product{}, false
	}
	s.products[i].Name = product.Name
	s.products[i].Quantity = product.Quantity
	return s.products[i], true
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.products = slices.Delete(s.products, i, i+1)
	return true
}

// indexOf must be called with mu held.
func (s *inMemory) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool {
		return p.ID == id
	})
}
