package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorenh/crmdash/internal/domain/lead"
)

const (
	insertLeadSQL = `INSERT INTO leads (id, name, phone, email, source, status, notes, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`

	updateLeadSQL = `UPDATE leads SET name = $2, phone = $3, email = $4, source = $5,
			status = $6, notes = $7, customer_id = NULLIF($8, ''), updated_at = $9
		WHERE id = $1`

	getLeadByIDSQL = `SELECT id, name, phone, email, source, status, notes, COALESCE(customer_id::text, ''), created_at, updated_at
		FROM leads WHERE id = $1`

	listLeadsSQL = `SELECT id, name, phone, email, source, status, notes, COALESCE(customer_id::text, ''), created_at, updated_at
		FROM leads ORDER BY created_at DESC`
)

var _ lead.Repository = (*LeadRepository)(nil)

// LeadRepository implements lead.Repository backed by PostgreSQL.
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository returns a LeadRepository that uses the given pool.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Create inserts a new lead.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	_, err := r.pool.Exec(ctx, insertLeadSQL,
		l.ID, l.Name, l.Phone, l.Email, l.Source, l.Status, l.Notes, l.CustomerID,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating lead: %w", err)
	}
	return nil
}

// Update rewrites a lead record.
func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	tag, err := r.pool.Exec(ctx, updateLeadSQL,
		l.ID, l.Name, l.Phone, l.Email, l.Source, l.Status, l.Notes, l.CustomerID, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating lead %q: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return lead.ErrNotFound
	}
	return nil
}

// GetByID returns a single lead by its identifier.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*lead.Lead, error) {
	rows, err := r.pool.Query(ctx, getLeadByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting lead %q: %w", id, err)
	}

	l, err := pgx.CollectExactlyOneRow(rows, scanLead)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lead.ErrNotFound
		}
		return nil, fmt.Errorf("getting lead %q: %w", id, err)
	}
	return &l, nil
}

// List returns all leads, newest first.
func (r *LeadRepository) List(ctx context.Context) ([]lead.Lead, error) {
	rows, err := r.pool.Query(ctx, listLeadsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return pgx.CollectRows(rows, scanLead)
}

func scanLead(row pgx.CollectableRow) (lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Email, &l.Source, &l.Status, &l.Notes,
		&l.CustomerID, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}
