// Package lead holds sales leads and the lead-to-customer conversion flow.
package lead

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested lead does not exist.
var ErrNotFound = errors.New("lead not found")

// ErrAlreadyConverted is returned when converting a lead that already
// produced a customer.
var ErrAlreadyConverted = errors.New("lead already converted")

// Status enumerates lead pipeline states.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Lead is a persisted sales lead.
type Lead struct {
	ID         string
	Name       string
	Phone      string
	Email      string
	Source     string
	Status     Status
	Notes      string
	CustomerID string // set once the lead is converted
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository defines persistence operations for leads.
type Repository interface {
	Create(ctx context.Context, l *Lead) error
	Update(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
}
