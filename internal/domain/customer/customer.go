// Package customer holds customer records and their persistence contract.
package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer is a persisted customer record.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a customer record must carry.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return errors.New("customer name must not be empty")
	}
	return nil
}

// Repository defines persistence operations for customers. UpdateNotes is a
// narrow write used by the autosaving notes field so concurrent note edits
// never clobber the rest of the record.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	UpdateNotes(ctx context.Context, id, notes string) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}
