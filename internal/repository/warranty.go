package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/order"
)

const insertWarrantySQL = `INSERT INTO warranties (id, order_item_id, product_id, months, expires_at)
	VALUES ($1, $2, $3, $4, $5)`

var _ order.WarrantyRepository = (*WarrantyRepository)(nil)

// WarrantyRepository implements order.WarrantyRepository backed by PostgreSQL.
type WarrantyRepository struct {
	pool *pgxpool.Pool
}

// NewWarrantyRepository returns a WarrantyRepository that uses the given pool.
func NewWarrantyRepository(pool *pgxpool.Pool) *WarrantyRepository {
	return &WarrantyRepository{pool: pool}
}

// Create inserts a warranty record.
func (r *WarrantyRepository) Create(ctx context.Context, w *order.Warranty) error {
	_, err := r.pool.Exec(ctx, insertWarrantySQL,
		w.ID, w.OrderItemID, w.ProductID, w.Months, w.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("creating warranty: %w", err)
	}
	return nil
}
