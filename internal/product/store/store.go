// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/productboard/internal/product/store/db"
	"github.com/shopspring/decimal"
)

// ProductStore abstracts the products table so the service can run against
// PostgreSQL or an in-memory map.
type ProductStore interface {
	// FindAll returns every product. The order is unspecified and the slice may be empty.
	FindAll(ctx context.Context) ([]db.Product, error)

	// Create inserts a product and returns it with its assigned id and timestamps.
	Create(ctx context.Context, name string, price decimal.Decimal) (*db.Product, error)

	// DeleteByID removes a product permanently.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}
