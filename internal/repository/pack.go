package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/pack"
)

const (
	listActivePacksSQL = `SELECT id, name, description, base_price, active
		FROM packs WHERE active = TRUE ORDER BY name`

	getPackCatalogByIDSQL = `SELECT id, name, description, base_price, active
		FROM packs WHERE id = $1`

	upsertPackSQL = `INSERT INTO packs (id, name, description, base_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			base_price = EXCLUDED.base_price,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`

	getPackByIDSQL = `SELECT id, name, description, base_price, active, created_at, updated_at
		FROM packs WHERE id = $1`

	listPacksSQL = `SELECT id, name, description, base_price, active, created_at, updated_at
		FROM packs ORDER BY name`

	insertPackItemSQL = `INSERT INTO pack_items (id, pack_id, product_id, quantity, unit_price, overridden)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updatePackItemSQL = `UPDATE pack_items SET quantity = $2, unit_price = $3, overridden = $4
		WHERE id = $1`

	deletePackItemSQL = `DELETE FROM pack_items WHERE id = $1`

	listPackItemsSQL = `SELECT id, pack_id, product_id, quantity, unit_price, overridden
		FROM pack_items WHERE pack_id = $1 ORDER BY id`
)

var _ catalog.PackRepository = (*PackCatalogRepository)(nil)

// PackCatalogRepository serves catalog reads over package definitions.
type PackCatalogRepository struct {
	pool *pgxpool.Pool
}

// NewPackCatalogRepository returns a PackCatalogRepository using the given pool.
func NewPackCatalogRepository(pool *pgxpool.Pool) *PackCatalogRepository {
	return &PackCatalogRepository{pool: pool}
}

// ListActive returns all active package definitions as catalog entries.
func (r *PackCatalogRepository) ListActive(ctx context.Context) ([]catalog.Pack, error) {
	rows, err := r.pool.Query(ctx, listActivePacksSQL)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return pgx.CollectRows(rows, scanCatalogPack)
}

// GetByID returns a single package catalog entry by its identifier.
func (r *PackCatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Pack, error) {
	rows, err := r.pool.Query(ctx, getPackCatalogByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanCatalogPack)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrPackNotFound
		}
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}
	return &p, nil
}

func scanCatalogPack(row pgx.CollectableRow) (catalog.Pack, error) {
	var p catalog.Pack
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.Active)
	return p, err
}

var _ pack.Repository = (*PackRepository)(nil)

// PackRepository implements pack.Repository backed by PostgreSQL.
type PackRepository struct {
	pool *pgxpool.Pool
}

// NewPackRepository returns a PackRepository that uses the given pool.
func NewPackRepository(pool *pgxpool.Pool) *PackRepository {
	return &PackRepository{pool: pool}
}

// Upsert inserts or updates a package definition.
func (r *PackRepository) Upsert(ctx context.Context, p *pack.Pack) error {
	_, err := r.pool.Exec(ctx, upsertPackSQL,
		p.ID, p.Name, p.Description, p.BasePrice, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting package %q: %w", p.ID, err)
	}
	return nil
}

// GetByID returns a package definition by its identifier.
func (r *PackRepository) GetByID(ctx context.Context, id string) (*pack.Pack, error) {
	rows, err := r.pool.Query(ctx, getPackByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPack)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pack.ErrNotFound
		}
		return nil, fmt.Errorf("getting package %q: %w", id, err)
	}
	return &p, nil
}

// List returns all package definitions ordered by name.
func (r *PackRepository) List(ctx context.Context) ([]pack.Pack, error) {
	rows, err := r.pool.Query(ctx, listPacksSQL)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	return pgx.CollectRows(rows, scanPack)
}

// InsertItem adds a product line to a package definition.
func (r *PackRepository) InsertItem(ctx context.Context, item *pack.Item) error {
	_, err := r.pool.Exec(ctx, insertPackItemSQL,
		item.ID, item.PackID, item.ProductID, item.Quantity, item.UnitPrice, item.Overridden,
	)
	if err != nil {
		return fmt.Errorf("inserting package item: %w", err)
	}
	return nil
}

// UpdateItem rewrites the scalar fields of a package line.
func (r *PackRepository) UpdateItem(ctx context.Context, id string, quantity int, unitPrice decimal.Decimal, overridden bool) error {
	_, err := r.pool.Exec(ctx, updatePackItemSQL, id, quantity, unitPrice, overridden)
	if err != nil {
		return fmt.Errorf("updating package item %q: %w", id, err)
	}
	return nil
}

// DeleteItem removes a package line.
func (r *PackRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, deletePackItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting package item %q: %w", id, err)
	}
	return nil
}

// ListItems returns the product lines of a package definition.
func (r *PackRepository) ListItems(ctx context.Context, packID string) ([]pack.Item, error) {
	rows, err := r.pool.Query(ctx, listPackItemsSQL, packID)
	if err != nil {
		return nil, fmt.Errorf("listing package items: %w", err)
	}
	return pgx.CollectRows(rows, scanPackItem)
}

func scanPack(row pgx.CollectableRow) (pack.Pack, error) {
	var p pack.Pack
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanPackItem(row pgx.CollectableRow) (pack.Item, error) {
	var item pack.Item
	err := row.Scan(&item.ID, &item.PackID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Overridden)
	return item, err
}
