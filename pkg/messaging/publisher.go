// Package messaging defines domain events and the publisher abstraction used to emit them.
package messaging

import (
	"context"
)

// Subjects of the product events.
const (
	ProductsCreatedSubject = "products.created"
	ProductsUpdatedSubject = "products.updated"
	ProductsDeletedSubject = "products.deleted"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event. It is used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
