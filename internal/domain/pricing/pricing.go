// Package pricing computes draft totals: subtotal, discount, tax, and grand
// total. All arithmetic is exact decimal; callers round only at display or
// serialization boundaries.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
	zero    = decimal.Zero
)

// TaxMode selects how tax is derived from the discounted total.
//
// The two order workflows in the dashboard use different conventions AND
// different rates: order creation treats totals as VAT-inclusive at 18% and
// extracts the embedded tax, while order update adds 17% VAT on top. The
// mismatch is kept explicit here instead of being silently unified; picking a
// single convention is a product decision, not a refactoring one.
type TaxMode string

const (
	// TaxIncluded extracts embedded VAT from the discounted total at 18%.
	// The grand total equals the discounted total. Used by order creation.
	TaxIncluded TaxMode = "vat_included"
	// TaxAdded adds 17% VAT on top of the discounted total.
	// The grand total is the discounted total plus tax. Used by order update.
	TaxAdded TaxMode = "vat_added"
)

// Rate returns the VAT rate bound to the mode.
func (m TaxMode) Rate() decimal.Decimal {
	if m == TaxAdded {
		return decimal.NewFromFloat(0.17)
	}
	return decimal.NewFromFloat(0.18)
}

// Item is one priced line for totals calculation.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// LineTotal returns quantity times unit price.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Totals holds the derived amounts for a draft.
type Totals struct {
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	Tax                decimal.Decimal
	GrandTotal         decimal.Decimal
}

// Calculate derives Totals from the items and the free-text discount under
// the given tax mode. It is a pure function with no side effects.
func Calculate(items []Item, discountText string, mode TaxMode) Totals {
	subtotal := zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	discount := ParseDiscount(discountText, subtotal)
	afterDiscount := floorAtZero(subtotal.Sub(discount))

	rate := mode.Rate()
	var tax, grand decimal.Decimal
	switch mode {
	case TaxAdded:
		tax = afterDiscount.Mul(rate)
		grand = afterDiscount.Add(tax)
	default:
		// VAT-inclusive: tax is the portion embedded in the total.
		tax = afterDiscount.Sub(afterDiscount.Div(one.Add(rate)))
		grand = afterDiscount
	}

	return Totals{
		Subtotal:           subtotal,
		Discount:           discount,
		TotalAfterDiscount: afterDiscount,
		Tax:                tax,
		GrandTotal:         grand,
	}
}

// ParseDiscount interprets the free-text discount field. A trailing "%" means
// percentage of the subtotal; anything else is an absolute amount. Empty or
// unparseable text yields a zero discount: bad input degrades to "no
// discount" rather than blocking the workflow.
func ParseDiscount(text string, subtotal decimal.Decimal) decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" {
		return zero
	}

	if pct, ok := strings.CutSuffix(text, "%"); ok {
		v, err := decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			return zero
		}
		return floorAtZero(subtotal.Mul(v).Div(hundred))
	}

	v, err := decimal.NewFromString(text)
	if err != nil {
		return zero
	}
	return floorAtZero(v)
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
