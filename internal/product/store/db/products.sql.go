package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const listProducts = `
SELECT id, name, price, created_at, updated_at
FROM products
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
}

const createProduct = `
INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING id, name, price, created_at, updated_at
`

type CreateProductParams struct {
	Name  string
	Price decimal.Decimal
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct, arg.Name, arg.Price)
	return scanProduct(row)
}

const deleteProduct = `
DELETE FROM products
WHERE id = $1
`

// DeleteProduct returns the number of deleted rows.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// scanProduct reads the columns in the order of the SELECT and RETURNING lists.
func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
