// Package invoice generates and stores invoices for committed orders.
package invoice

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// Invoice is a persisted invoice. Amounts are snapshots of the order totals
// at generation time; later order edits do not touch issued invoices.
type Invoice struct {
	ID         string
	Number     string
	OrderID    string
	CustomerID string
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	IssuedAt   time.Time
	DueAt      time.Time
}

// Repository defines persistence operations for invoices.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
}
