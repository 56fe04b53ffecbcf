// Package events contains the payloads published on product mutations.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productboard/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ProductCreatedEvent is published after a product row is inserted.
// Carrier holds the trace context of the request that created it.
type ProductCreatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID int64                  `json:"product_id"`
	Name      string                 `json:"name"`
	Price     string                 `json:"price"`
	CreatedAt time.Time              `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID int64                  `json:"product_id"`
	DeletedAt time.Time              `json:"deleted_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
