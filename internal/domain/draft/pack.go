package draft

import (
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/catalog"
)

// PackDraft is the in-memory state of one package-definition editing
// workflow. Package definitions contain product lines only; each line may
// carry an explicit price override, otherwise the snapshot catalog price
// applies.
type PackDraft struct {
	PackID      string // set when editing a persisted package
	Name        string
	Description string
	// BasePriceText is the free-text base price field. When blank or
	// unparseable the effective base price is derived from the line totals.
	BasePriceText string
	Active        bool
	Items         []LineItem

	cat      *catalog.Snapshot
	original []LineItem
}

// NewPackDraft opens a package-definition draft against a catalog snapshot.
func NewPackDraft(cat *catalog.Snapshot) *PackDraft {
	return &PackDraft{Active: true, cat: cat}
}

// LoadExisting populates the draft from a persisted package's items and
// snapshots them as the reconciliation baseline.
func (d *PackDraft) LoadExisting(packID string, items []LineItem) {
	d.PackID = packID
	d.Items = append([]LineItem(nil), items...)
	d.original = append([]LineItem(nil), items...)
}

// Original returns the reconciliation baseline captured by LoadExisting.
func (d *PackDraft) Original() []LineItem {
	return d.original
}

// Catalog returns the snapshot the draft resolves against.
func (d *PackDraft) Catalog() *catalog.Snapshot {
	return d.cat
}

// AddProduct appends a product line. A nil override keeps the catalog price;
// a non-nil override must be >= 0. Products are unique per package
// definition and no stock check applies.
func (d *PackDraft) AddProduct(productID string, quantity int, override *decimal.Decimal) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if override != nil && override.IsNegative() {
		return &ValidationError{Field: "price_override", Reason: "must not be negative"}
	}
	p, ok := d.cat.Product(productID)
	if !ok {
		return &NotFoundError{Kind: KindProduct, RefID: productID}
	}
	for _, li := range d.Items {
		if li.RefID == productID {
			return &ValidationError{Field: "product", Reason: "already in package"}
		}
	}

	li := LineItem{
		Kind:      KindProduct,
		RefID:     productID,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: p.Price,
	}
	if override != nil {
		li.UnitPrice = *override
		li.Overridden = true
	}
	d.Items = append(d.Items, li)
	return nil
}

// Remove deletes the line item at the given index.
func (d *PackDraft) Remove(index int) error {
	if index < 0 || index >= len(d.Items) {
		return ErrItemIndex
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

// Clear empties the collection and resets scalar fields to workflow defaults.
func (d *PackDraft) Clear() {
	d.Items = nil
	d.Name = ""
	d.Description = ""
	d.BasePriceText = ""
	d.Active = true
}

// ItemsTotal returns the sum of line totals.
func (d *PackDraft) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range d.Items {
		total = total.Add(li.LineTotal())
	}
	return total
}

// EffectiveBasePrice returns the parsed base price, or the items total when
// the base price field is blank or invalid.
func (d *PackDraft) EffectiveBasePrice() decimal.Decimal {
	if v, err := decimal.NewFromString(d.BasePriceText); err == nil && !v.IsNegative() {
		return v
	}
	return d.ItemsTotal()
}
