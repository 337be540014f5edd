package draft

import (
	"time"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/pricing"
)

// Order statuses and payment fields are descriptive; they carry no
// cross-field invariants beyond enum membership, validated at the transport
// boundary.

// OrderDraft is the in-memory state of one order editing workflow. Each
// workflow owns exactly one draft; closing the workflow discards it. Totals
// are recomputed after every mutation.
type OrderDraft struct {
	CustomerID           string
	OrderID              string // set when editing a persisted order
	Items                []LineItem
	DiscountText         string
	Status               string
	PaymentStatus        string
	PaymentMethod        string
	Notes                string
	InstallationIncluded bool
	CreatedDate          time.Time
	Mode                 pricing.TaxMode
	Totals               pricing.Totals

	cat      *catalog.Snapshot
	original []LineItem
}

// NewOrderDraft opens an order draft for the given customer against a catalog
// snapshot. The customer must be set before any item can be added.
func NewOrderDraft(customerID string, cat *catalog.Snapshot, mode pricing.TaxMode) (*OrderDraft, error) {
	if customerID == "" {
		return nil, &ValidationError{Field: "customer_id", Reason: "required"}
	}
	d := &OrderDraft{
		CustomerID:  customerID,
		CreatedDate: time.Now(),
		Mode:        mode,
	}
	d.cat = cat
	d.recalc()
	return d, nil
}

// LoadExisting populates the draft from a persisted order's line items and
// snapshots them as the reconciliation baseline. The baseline is never
// mutated afterwards.
func (d *OrderDraft) LoadExisting(orderID string, items []LineItem) {
	d.OrderID = orderID
	d.Items = append([]LineItem(nil), items...)
	d.original = append([]LineItem(nil), items...)
	d.recalc()
}

// Original returns the reconciliation baseline captured by LoadExisting.
func (d *OrderDraft) Original() []LineItem {
	return d.original
}

// Catalog returns the snapshot the draft resolves against.
func (d *OrderDraft) Catalog() *catalog.Snapshot {
	return d.cat
}

// AddProduct appends a product line priced at the snapshot price. The same
// product may appear on multiple lines; the stock check covers the requested
// quantity plus all quantities already drafted for that product.
func (d *OrderDraft) AddProduct(productID string, quantity int) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	p, ok := d.cat.Product(productID)
	if !ok {
		return &NotFoundError{Kind: KindProduct, RefID: productID}
	}

	drafted := 0
	for _, li := range d.Items {
		if li.Kind == KindProduct && li.RefID == productID {
			drafted += li.Quantity
		}
	}
	if drafted+quantity > p.Stock {
		return &InsufficientStockError{
			ProductID: productID,
			Requested: drafted + quantity,
			Available: p.Stock,
		}
	}

	d.Items = append(d.Items, LineItem{
		Kind:      KindProduct,
		RefID:     productID,
		Name:      p.Name,
		Quantity:  quantity,
		UnitPrice: p.Price,
	})
	d.recalc()
	return nil
}

// AddPack appends a package line priced at the package base price. A package
// may appear at most once per draft; no stock check applies.
func (d *OrderDraft) AddPack(packID string, quantity int) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	k, ok := d.cat.Pack(packID)
	if !ok {
		return &NotFoundError{Kind: KindPack, RefID: packID}
	}
	for _, li := range d.Items {
		if li.Kind == KindPack && li.RefID == packID {
			return &ValidationError{Field: "package", Reason: "already in order"}
		}
	}

	d.Items = append(d.Items, LineItem{
		Kind:      KindPack,
		RefID:     packID,
		Name:      k.Name,
		Quantity:  quantity,
		UnitPrice: k.BasePrice,
	})
	d.recalc()
	return nil
}

// Remove deletes the line item at the given index.
func (d *OrderDraft) Remove(index int) error {
	if index < 0 || index >= len(d.Items) {
		return ErrItemIndex
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.recalc()
	return nil
}

// SetDiscount replaces the free-text discount and recomputes totals.
func (d *OrderDraft) SetDiscount(text string) {
	d.DiscountText = text
	d.recalc()
}

// Clear empties the collection and resets scalar fields to workflow defaults.
// Used on explicit reset and when the workflow closes.
func (d *OrderDraft) Clear() {
	d.Items = nil
	d.DiscountText = ""
	d.Status = ""
	d.PaymentStatus = ""
	d.PaymentMethod = ""
	d.Notes = ""
	d.InstallationIncluded = false
	d.recalc()
}

func (d *OrderDraft) recalc() {
	d.Totals = pricing.Calculate(pricingItems(d.Items), d.DiscountText, d.Mode)
}
