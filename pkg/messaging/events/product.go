package events

import (
	"encoding/json"
	"time"

	"github.com/Staphlerr/eshop-adpro/pkg/messaging"
)

// ProductCreatedEvent is emitted after a product has been stored.
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductUpdatedEvent is emitted after a product's name or quantity has been replaced.
type ProductUpdatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductsUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductDeletedEvent is emitted only when a delete actually removed a product.
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
