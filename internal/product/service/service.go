// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	producterrors "github.com/Staphlerr/eshop-adpro/internal/product/errors"
	"github.com/Staphlerr/eshop-adpro/internal/product/store"
	"github.com/Staphlerr/eshop-adpro/pkg/messaging"
	"github.com/Staphlerr/eshop-adpro/pkg/messaging/events"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product. An empty ID is replaced by a generated one.
	Create(ctx context.Context, product ProductDto) ProductDto

	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) []ProductDto

	// FindByID retrieves a single product by its unique identifier.
	// The boolean is false if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (ProductDto, bool)

	// Update replaces name and quantity of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, product ProductDto) (ProductDto, error)

	// DeleteByID removes a product by its ID. Deleting an absent product is not an error.
	DeleteByID(ctx context.Context, id string)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	now        func() time.Time
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher disables event publishing.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		now:        time.Now,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// UpdateDto is a ProductDto whose identifier must be present.
type UpdateDto struct {
	ID       string `json:"id"       validate:"required"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ToProduct converts an UpdateDto to a ProductDto.
func (u UpdateDto) ToProduct() ProductDto {
	return ProductDto(u)
}

// Create stores a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductDto) ProductDto {
	created := s.repository.Create(ctx, toProduct(product))
	s.publish(ctx, events.ProductCreatedEvent{
		ProductID: created.ID,
		Name:      created.Name,
		Quantity:  created.Quantity,
		CreatedAt: s.now(),
	})
	return toDto(created)
}

// FindAll materializes all products as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) []ProductDto {
	products := slices.Collect(s.repository.FindAll(ctx))
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = toDto(item)
	}

	return productDTOs
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id string) (ProductDto, bool) {
	product, ok := s.repository.FindByID(ctx, id)
	if !ok {
		return ProductDto{}, false
	}
	return toDto(product), true
}

// Update modifies an existing product's details and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, product ProductDto) (ProductDto, error) {
	if _, ok := s.repository.FindByID(ctx, product.ID); !ok {
		return ProductDto{}, notFound(product.ID)
	}
	// the product may have been deleted since the lookup
	updated, ok := s.repository.Replace(ctx, toProduct(product))
	if !ok {
		return ProductDto{}, notFound(product.ID)
	}

	s.publish(ctx, events.ProductUpdatedEvent{
		ProductID: updated.ID,
		Name:      updated.Name,
		Quantity:  updated.Quantity,
		UpdatedAt: s.now(),
	})
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id string) {
	if !s.repository.DeleteByID(ctx, id) {
		return
	}
	s.publish(ctx, events.ProductDeletedEvent{
		ProductID: id,
		DeletedAt: s.now(),
	})
}

// publish sends the event and logs failures; the operation that produced the event has already succeeded.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w with ID: %s", producterrors.ErrProductNotFound, id)
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) ProductDto {
	return ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Quantity: product.Quantity,
	}
}

func toProduct(dto ProductDto) store.Product {
	return store.Product{
		ID:       dto.ID,
		Name:     dto.Name,
		Quantity: dto.Quantity,
	}
}
