// Package messaging defines the domain event contract and publishers that do not need a broker.
package messaging

import (
	"context"
)

const (
	ProductsCreatedSubject = "products.created"
	ProductsDeletedSubject = "products.deleted"
	// ProductsSubjects matches every product event subject.
	ProductsSubjects = "products.>"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
