// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"iter"
)

// Product represents a product entity in the store.
type Product struct {
	ID       string
	Name     string
	Quantity int
}

// ProductStore is an interface for product storage operations.
// It is the single source of truth for product identity and existence.
type ProductStore interface {
	// Create stores a product, assigning a new unused ID when product.ID is empty.
	// An explicit ID that is already stored replaces that product, keeping its position.
	// Returns the stored product with its ID populated.
	Create(ctx context.Context, product Product) Product

	// FindAll returns a sequence over the products stored at call time, in insertion order.
	// Every call returns an independent sequence.
	FindAll(ctx context.Context) iter.Seq[Product]

	// FindByID returns the product with the given ID.
	// The boolean is false if no product matches.
	FindByID(ctx context.Context, id string) (Product, bool)

	// Replace overwrites the mutable fields of the stored product that has product.ID.
	// The boolean is false if no product matches.
	Replace(ctx context.Context, product Product) (Product, bool)

	// DeleteByID removes the product with the given ID.
	// Deleting an absent ID is a no-op; the boolean reports whether a product was removed.
	DeleteByID(ctx context.Context, id string) bool
}
