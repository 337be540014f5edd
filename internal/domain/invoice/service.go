package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/order"
)

// DefaultDueIn is the payment term applied to generated invoices.
const DefaultDueIn = 14 * 24 * time.Hour

// Service generates invoices from committed orders.
type Service struct {
	invoices Repository
	orders   order.Repository
	now      func() time.Time
}

// NewService creates an invoice Service.
func NewService(invoices Repository, orders order.Repository) *Service {
	return &Service{invoices: invoices, orders: orders, now: time.Now}
}

// CreateForOrder issues an invoice snapshotting the order's current totals.
// Generation is idempotent per order: a second call returns the invoice
// already issued.
func (s *Service) CreateForOrder(ctx context.Context, orderID string) (*Invoice, error) {
	if existing, err := s.invoices.GetByOrderID(ctx, orderID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "check existing invoice")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "load order")
	}

	now := s.now()
	inv := &Invoice{
		ID:         uuid.New().String(),
		Number:     numberFor(now),
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Subtotal:   o.Subtotal,
		Discount:   o.Discount,
		Tax:        o.Tax,
		Total:      o.Total,
		IssuedAt:   now,
		DueAt:      now.Add(DefaultDueIn),
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, errors.Wrap(err, "save invoice")
	}
	return inv, nil
}

// numberFor builds a display number like INV-20260830-7f3a91c2. The suffix
// makes numbers unique without a sequence table.
func numberFor(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
}
