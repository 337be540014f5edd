// Package pack manages package definitions: named product bundles sold at a
// base price, assembled from product lines with optional price overrides.
package pack

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested package does not exist.
var ErrNotFound = errors.New("package not found")

// Pack is a persisted package definition.
type Pack struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item is one persisted product line of a package definition.
type Item struct {
	ID         string
	PackID     string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	Overridden bool
}

// Repository defines persistence operations for package definitions.
type Repository interface {
	Upsert(ctx context.Context, p *Pack) error
	GetByID(ctx context.Context, id string) (*Pack, error)
	List(ctx context.Context) ([]Pack, error)
	InsertItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, id string, quantity int, unitPrice decimal.Decimal, overridden bool) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, packID string) ([]Item, error)
}
