package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/invoice"
)

const (
	insertInvoiceSQL = `INSERT INTO invoices (id, number, order_id, customer_id, subtotal, discount, tax, total, issued_at, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	getInvoiceByIDSQL = `SELECT id, number, order_id, customer_id, subtotal, discount, tax, total, issued_at, due_at
		FROM invoices WHERE id = $1`

	getInvoiceByOrderIDSQL = `SELECT id, number, order_id, customer_id, subtotal, discount, tax, total, issued_at, due_at
		FROM invoices WHERE order_id = $1`

	listInvoicesSQL = `SELECT id, number, order_id, customer_id, subtotal, discount, tax, total, issued_at, due_at
		FROM invoices ORDER BY issued_at DESC`
)

var _ invoice.Repository = (*InvoiceRepository)(nil)

// InvoiceRepository implements invoice.Repository backed by PostgreSQL.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository returns an InvoiceRepository that uses the given pool.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// Create inserts an invoice.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	_, err := r.pool.Exec(ctx, insertInvoiceSQL,
		inv.ID, inv.Number, inv.OrderID, inv.CustomerID,
		inv.Subtotal, inv.Discount, inv.Tax, inv.Total, inv.IssuedAt, inv.DueAt,
	)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}
	return nil
}

// GetByID returns a single invoice by its identifier.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.getOne(ctx, getInvoiceByIDSQL, id)
}

// GetByOrderID returns the invoice issued for an order, if any.
func (r *InvoiceRepository) GetByOrderID(ctx context.Context, orderID string) (*invoice.Invoice, error) {
	return r.getOne(ctx, getInvoiceByOrderIDSQL, orderID)
}

// List returns all invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := r.pool.Query(ctx, listInvoicesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return pgx.CollectRows(rows, scanInvoice)
}

func (r *InvoiceRepository) getOne(ctx context.Context, sql, arg string) (*invoice.Invoice, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting invoice %q: %w", arg, err)
	}

	inv, err := pgx.CollectExactlyOneRow(rows, scanInvoice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}
		return nil, fmt.Errorf("getting invoice %q: %w", arg, err)
	}
	return &inv, nil
}

func scanInvoice(row pgx.CollectableRow) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.OrderID, &inv.CustomerID,
		&inv.Subtotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.IssuedAt, &inv.DueAt)
	return inv, err
}
