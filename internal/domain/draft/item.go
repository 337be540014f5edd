// Package draft holds the in-memory editing state for orders and package
// definitions: line-item collections that validate every mutation, recompute
// totals as they change, and diff themselves against their persisted originals
// on save.
package draft

import (
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/pricing"
)

// Kind discriminates what a line item references and how it is priced.
type Kind string

const (
	// KindProduct references a catalog product. Product lines are stock
	// checked in order drafts and may repeat within one order.
	KindProduct Kind = "product"
	// KindPack references a catalog package. Package lines are unique per
	// referenced package within a draft and skip stock checks.
	KindPack Kind = "pack"
)

// LineItem is one selected entry in a draft: a product or package reference
// with a quantity and the price in effect when it was added.
type LineItem struct {
	Kind     Kind
	RefID    string
	Name     string
	Quantity int
	// UnitPrice is the effective price for totals: the catalog price captured
	// at add time, or an explicit override for package-definition lines.
	UnitPrice decimal.Decimal
	// Overridden marks UnitPrice as an explicit override rather than the
	// catalog price.
	Overridden bool
	// PersistedID is the storage row id once the item has round-tripped
	// through storage. Empty means the item has not been persisted yet.
	PersistedID string
}

// LineTotal returns quantity times unit price. It is always derived, never
// stored independently of its inputs.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func pricingItems(items []LineItem) []pricing.Item {
	out := make([]pricing.Item, len(items))
	for i, li := range items {
		out[i] = pricing.Item{UnitPrice: li.UnitPrice, Quantity: li.Quantity}
	}
	return out
}
