package pack

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/draft"
)

// Service coordinates package-definition persistence: the parent record and
// the product-line changeset. Packages have no side effects on commit.
type Service struct {
	packs Repository
	now   func() time.Time
}

// NewService creates a package Service.
func NewService(packs Repository) *Service {
	return &Service{packs: packs, now: time.Now}
}

// Commit writes the draft to storage: upsert the parent record, then apply
// the reconciliation changeset to the item rows. The first failure aborts
// the remaining sequence; steps already applied are not rolled back.
func (s *Service) Commit(ctx context.Context, d *draft.PackDraft) (*Pack, error) {
	if d.Name == "" {
		return nil, &draft.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	now := s.now()
	p := &Pack{
		ID:          d.PackID,
		Name:        d.Name,
		Description: d.Description,
		BasePrice:   d.EffectiveBasePrice(),
		Active:      d.Active,
		UpdatedAt:   now,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = now
	}

	if err := s.packs.Upsert(ctx, p); err != nil {
		return nil, errors.Wrap(err, "save package")
	}

	cs := draft.Diff(d.Original(), d.Items)

	// The changeset carries row ids only; map them back to the baseline
	// product so updates keep the current line's override flag.
	productByRow := make(map[string]string, len(d.Original()))
	for _, li := range d.Original() {
		if li.PersistedID != "" {
			productByRow[li.PersistedID] = li.RefID
		}
	}
	overridden := make(map[string]bool, len(d.Items))
	for _, li := range d.Items {
		overridden[li.RefID] = li.Overridden
	}

	for _, li := range cs.Insert {
		item := &Item{
			ID:         uuid.New().String(),
			PackID:     p.ID,
			ProductID:  li.RefID,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice,
			Overridden: li.Overridden,
		}
		if err := s.packs.InsertItem(ctx, item); err != nil {
			return nil, errors.Wrapf(err, "insert line for product %s", li.RefID)
		}
	}

	for _, up := range cs.Update {
		if err := s.packs.UpdateItem(ctx, up.PersistedID, up.Quantity, up.UnitPrice, overridden[productByRow[up.PersistedID]]); err != nil {
			return nil, errors.Wrapf(err, "update line %s", up.PersistedID)
		}
	}

	for _, id := range cs.DeleteIDs {
		if err := s.packs.DeleteItem(ctx, id); err != nil {
			return nil, errors.Wrapf(err, "delete line %s", id)
		}
	}

	return p, nil
}
