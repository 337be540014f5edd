package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/order"
)

const (
	upsertOrderSQL = `INSERT INTO orders (id, customer_id, status, payment_status, payment_method,
			notes, installation_included, subtotal, discount, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			status = EXCLUDED.status,
			payment_status = EXCLUDED.payment_status,
			payment_method = EXCLUDED.payment_method,
			notes = EXCLUDED.notes,
			installation_included = EXCLUDED.installation_included,
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			tax = EXCLUDED.tax,
			total = EXCLUDED.total,
			updated_at = EXCLUDED.updated_at`

	getOrderByIDSQL = `SELECT id, customer_id, status, payment_status, payment_method,
			notes, installation_included, subtotal, discount, tax, total, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, customer_id, status, payment_status, payment_method,
			notes, installation_included, subtotal, discount, tax, total, created_at, updated_at
		FROM orders ORDER BY created_at DESC`

	insertOrderItemSQL = `INSERT INTO order_items (id, order_id, kind, ref_id, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateOrderItemSQL = `UPDATE order_items SET quantity = $2, unit_price = $3 WHERE id = $1`

	deleteOrderItemSQL = `DELETE FROM order_items WHERE id = $1`

	listOrderItemsSQL = `SELECT id, order_id, kind, ref_id, name, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`

	decrementStockSQL = `SELECT decrement_stock($1, $2)`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Upsert inserts or updates the parent order row.
func (r *OrderRepository) Upsert(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, upsertOrderSQL,
		o.ID, o.CustomerID, o.Status, o.PaymentStatus, o.PaymentMethod,
		o.Notes, o.InstallationIncluded, o.Subtotal, o.Discount, o.Tax, o.Total,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// InsertItem adds a line to an order.
func (r *OrderRepository) InsertItem(ctx context.Context, item *order.Item) error {
	_, err := r.pool.Exec(ctx, insertOrderItemSQL,
		item.ID, item.OrderID, item.Kind, item.RefID, item.Name, item.Quantity, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("inserting order item: %w", err)
	}
	return nil
}

// UpdateItem rewrites the quantity and price of an order line.
func (r *OrderRepository) UpdateItem(ctx context.Context, id string, quantity int, unitPrice decimal.Decimal) error {
	_, err := r.pool.Exec(ctx, updateOrderItemSQL, id, quantity, unitPrice)
	if err != nil {
		return fmt.Errorf("updating order item %q: %w", id, err)
	}
	return nil
}

// DeleteItem removes an order line.
func (r *OrderRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, deleteOrderItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order item %q: %w", id, err)
	}
	return nil
}

// ListItems returns the lines of an order.
func (r *OrderRepository) ListItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, listOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.Notes, &o.InstallationIncluded, &o.Subtotal, &o.Discount, &o.Tax, &o.Total,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var item order.Item
	err := row.Scan(&item.ID, &item.OrderID, &item.Kind, &item.RefID, &item.Name, &item.Quantity, &item.UnitPrice)
	return item, err
}

var _ order.Inventory = (*InventoryRepository)(nil)

// InventoryRepository decrements product stock through the decrement_stock
// database function, which clamps at zero and reports whether the full
// quantity was available.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository returns an InventoryRepository using the given pool.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

// DecrementStock reduces a product's stock by quantity.
func (r *InventoryRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	var fully bool
	err := r.pool.QueryRow(ctx, decrementStockSQL, productID, quantity).Scan(&fully)
	if err != nil {
		return fmt.Errorf("decrementing stock for %q: %w", productID, err)
	}
	if !fully {
		return fmt.Errorf("stock for %q went below requested quantity %d", productID, quantity)
	}
	return nil
}
