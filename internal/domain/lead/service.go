package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/customer"
	"github.com/sorenh/crmdash/internal/notify"
)

// Service converts leads into customers.
type Service struct {
	leads     Repository
	customers customer.Repository
	notifier  notify.Notifier
	now       func() time.Time
}

// NewService creates a lead Service.
func NewService(leads Repository, customers customer.Repository, notifier notify.Notifier) *Service {
	return &Service{
		leads:     leads,
		customers: customers,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Convert creates a customer from the lead's contact details and stamps the
// lead as converted. The customer write is the primary operation; a failure
// to stamp the lead afterwards is reported as a warning, not rolled back.
func (s *Service) Convert(ctx context.Context, leadID string) (*customer.Customer, []string, error) {
	l, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load lead")
	}
	if l.Status == StatusConverted || l.CustomerID != "" {
		return nil, nil, ErrAlreadyConverted
	}

	now := s.now()
	c := &customer.Customer{
		ID:        uuid.New().String(),
		Name:      l.Name,
		Phone:     l.Phone,
		Email:     l.Email,
		Notes:     l.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, nil, errors.Wrap(err, "create customer")
	}

	var warnings []string

	l.Status = StatusConverted
	l.CustomerID = c.ID
	l.UpdatedAt = now
	if err := s.leads.Update(ctx, l); err != nil {
		msg := fmt.Sprintf("lead %s not stamped as converted: %v", l.Name, err)
		warnings = append(warnings, msg)
		s.notifier.Notify(ctx, msg, notify.Warning)
	}

	return c, warnings, nil
}
