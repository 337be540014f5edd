package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/notify"
)

// Service coordinates order persistence: the parent record, the line-item
// changeset, and the dependent side effects (inventory decrement, warranty
// creation).
type Service struct {
	orders     Repository
	inventory  Inventory
	warranties WarrantyRepository
	notifier   notify.Notifier
	now        func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(
	orders Repository,
	inventory Inventory,
	warranties WarrantyRepository,
	notifier notify.Notifier,
) *Service {
	return &Service{
		orders:     orders,
		inventory:  inventory,
		warranties: warranties,
		notifier:   notifier,
		now:        time.Now,
	}
}

// CommitResult reports a committed order. Warnings carry side-effect
// failures that did not abort the commit.
type CommitResult struct {
	Order    *Order
	Warnings []string
}

// Commit writes the draft to storage in sequence: (1) upsert the parent
// order, (2) apply the reconciliation changeset to the line-item rows,
// (3) run best-effort side effects.
//
// A parent or line-item failure aborts the remaining sequence and is
// returned as a fatal error; there is no rollback of steps already applied.
// Side-effect failures are collected as warnings and notified, never fatal.
func (s *Service) Commit(ctx context.Context, d *draft.OrderDraft) (*CommitResult, error) {
	o := s.buildOrder(d)

	if err := s.orders.Upsert(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}

	cs := draft.Diff(d.Original(), d.Items)

	inserted, err := s.applyChangeset(ctx, o.ID, cs)
	if err != nil {
		return nil, err
	}

	warnings := s.applySideEffects(ctx, d, inserted)

	return &CommitResult{Order: o, Warnings: warnings}, nil
}

func (s *Service) buildOrder(d *draft.OrderDraft) *Order {
	now := s.now()

	o := &Order{
		ID:                   d.OrderID,
		CustomerID:           d.CustomerID,
		Status:               Status(d.Status),
		PaymentStatus:        PaymentStatus(d.PaymentStatus),
		PaymentMethod:        d.PaymentMethod,
		Notes:                d.Notes,
		InstallationIncluded: d.InstallationIncluded,
		Subtotal:             d.Totals.Subtotal,
		Discount:             d.Totals.Discount,
		Tax:                  d.Totals.Tax,
		Total:                d.Totals.GrandTotal,
		CreatedAt:            d.CreatedDate,
		UpdatedAt:            now,
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
		o.CreatedAt = now
	}
	if o.Status == "" {
		o.Status = StatusNew
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentUnpaid
	}
	return o
}

// applyChangeset applies insert/update/delete row operations and returns the
// inserted items (needed by side effects). The first failing operation aborts
// the rest.
func (s *Service) applyChangeset(ctx context.Context, orderID string, cs draft.Changeset) ([]*Item, error) {
	inserted := make([]*Item, 0, len(cs.Insert))
	for _, li := range cs.Insert {
		item := &Item{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Kind:      li.Kind,
			RefID:     li.RefID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		}
		if err := s.orders.InsertItem(ctx, item); err != nil {
			return nil, errors.Wrapf(err, "insert line for %s %s", li.Kind, li.RefID)
		}
		inserted = append(inserted, item)
	}

	for _, up := range cs.Update {
		if err := s.orders.UpdateItem(ctx, up.PersistedID, up.Quantity, up.UnitPrice); err != nil {
			return nil, errors.Wrapf(err, "update line %s", up.PersistedID)
		}
	}

	for _, id := range cs.DeleteIDs {
		if err := s.orders.DeleteItem(ctx, id); err != nil {
			return nil, errors.Wrapf(err, "delete line %s", id)
		}
	}

	return inserted, nil
}

// applySideEffects decrements inventory and creates warranty records for the
// inserted product lines. Each failure is logged as a warning and notified;
// none aborts the commit.
func (s *Service) applySideEffects(ctx context.Context, d *draft.OrderDraft, inserted []*Item) []string {
	var warnings []string

	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		s.notifier.Notify(ctx, msg, notify.Warning)
	}

	for _, item := range inserted {
		if item.Kind != draft.KindProduct {
			continue
		}

		if err := s.inventory.DecrementStock(ctx, item.RefID, item.Quantity); err != nil {
			warn("stock not decremented for %s: %v", item.Name, err)
		}

		p, ok := d.Catalog().Product(item.RefID)
		if !ok || p.WarrantyMonths <= 0 {
			continue
		}
		w := &Warranty{
			ID:          uuid.New().String(),
			OrderItemID: item.ID,
			ProductID:   item.RefID,
			Months:      p.WarrantyMonths,
			ExpiresAt:   s.now().AddDate(0, p.WarrantyMonths, 0),
		}
		if err := s.warranties.Create(ctx, w); err != nil {
			warn("warranty not created for %s: %v", item.Name, err)
		}
	}

	return warnings
}
