package store

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/abgdnv/productboard/internal/product/store/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// FindAll retrieves all products.
func (p *PgStore) FindAll(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	if products == nil {
		products = []db.Product{}
	}
	return products, nil
}

// Create adds a new product to the table.
func (p *PgStore) Create(ctx context.Context, name string, price decimal.Decimal) (*db.Product, error) {
	product, err := p.q.CreateProduct(ctx, db.CreateProductParams{
		Name:  name,
		Price: price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// DeleteByID removes a product by its identifier.
// Returns ErrProductNotFound if nothing was deleted.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	count, err := p.q.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if count == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}
