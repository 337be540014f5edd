package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/customer"
)

const (
	insertCustomerSQL = `INSERT INTO customers (id, name, phone, email, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateCustomerSQL = `UPDATE customers SET name = $2, phone = $3, email = $4, address = $5,
			notes = $6, updated_at = $7
		WHERE id = $1`

	updateCustomerNotesSQL = `UPDATE customers SET notes = $2, updated_at = now() WHERE id = $1`

	getCustomerByIDSQL = `SELECT id, name, phone, email, address, notes, created_at, updated_at
		FROM customers WHERE id = $1`

	listCustomersSQL = `SELECT id, name, phone, email, address, notes, created_at, updated_at
		FROM customers ORDER BY name`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.pool.Exec(ctx, insertCustomerSQL,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}
	return nil
}

// Update rewrites a customer record.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating customer %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// UpdateNotes rewrites only the notes column. Used by the autosaving notes
// field so it never races with full-record edits.
func (r *CustomerRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	tag, err := r.pool.Exec(ctx, updateCustomerNotesSQL, id, notes)
	if err != nil {
		return fmt.Errorf("updating customer notes %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// GetByID returns a single customer by its identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %q: %w", id, err)
	}
	return &c, nil
}

// List returns all customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
