package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/catalog"
)

const (
	listActiveProductsSQL = `SELECT id, sku, name, price, stock, warranty_months, active
		FROM products WHERE active = TRUE ORDER BY name`

	getProductByIDSQL = `SELECT id, sku, name, price, stock, warranty_months, active
		FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT id, sku, name, price, stock, warranty_months, active
		FROM products WHERE id = ANY($1)`

	upsertProductSQL = `INSERT INTO products (id, sku, name, price, stock, warranty_months, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sku) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			warranty_months = EXCLUDED.warranty_months,
			active = EXCLUDED.active`
)

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements catalog.ProductRepository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ListActive returns all active products ordered by name.
func (r *ProductRepository) ListActive(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs, active or not.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Upsert inserts or updates a product keyed by SKU. Used by the catalog
// import and seed tools.
func (r *ProductRepository) Upsert(ctx context.Context, p catalog.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.SKU, p.Name, p.Price, p.Stock, p.WarrantyMonths, p.Active)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.SKU, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Stock, &p.WarrantyMonths, &p.Active)
	return p, err
}
