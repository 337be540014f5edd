package handler

import (
	"time"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/customer"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/invoice"
	"github.com/sorenh/crmdash/internal/domain/lead"
	"github.com/sorenh/crmdash/internal/domain/order"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/domain/pricing"
)

type productView struct {
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	WarrantyMonths int     `json:"warranty_months,omitempty"`
	Active         bool    `json:"active"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Price:          money(p.Price),
		Stock:          p.Stock,
		WarrantyMonths: p.WarrantyMonths,
		Active:         p.Active,
	}
}

type packCatalogView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price"`
	Active      bool    `json:"active"`
}

func toPackCatalogView(p catalog.Pack) packCatalogView {
	return packCatalogView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   money(p.BasePrice),
		Active:      p.Active,
	}
}

type itemView struct {
	Index      int     `json:"index"`
	Kind       string  `json:"kind"`
	RefID      string  `json:"ref_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	LineTotal  float64 `json:"line_total"`
	Overridden bool    `json:"overridden,omitempty"`
}

func toItemViews(items []draft.LineItem) []itemView {
	out := make([]itemView, len(items))
	for i, li := range items {
		out[i] = itemView{
			Index:      i,
			Kind:       string(li.Kind),
			RefID:      li.RefID,
			Name:       li.Name,
			Quantity:   li.Quantity,
			UnitPrice:  money(li.UnitPrice),
			LineTotal:  money(li.LineTotal()),
			Overridden: li.Overridden,
		}
	}
	return out
}

type totalsView struct {
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	TotalAfterDiscount float64 `json:"total_after_discount"`
	Tax                float64 `json:"tax"`
	GrandTotal         float64 `json:"grand_total"`
}

func toTotalsView(t pricing.Totals) totalsView {
	return totalsView{
		Subtotal:           money(t.Subtotal),
		Discount:           money(t.Discount),
		TotalAfterDiscount: money(t.TotalAfterDiscount),
		Tax:                money(t.Tax),
		GrandTotal:         money(t.GrandTotal),
	}
}

type orderDraftView struct {
	SessionID            string     `json:"session_id"`
	CustomerID           string     `json:"customer_id"`
	OrderID              string     `json:"order_id,omitempty"`
	TaxMode              string     `json:"tax_mode"`
	Discount             string     `json:"discount"`
	Status               string     `json:"status,omitempty"`
	PaymentStatus        string     `json:"payment_status,omitempty"`
	PaymentMethod        string     `json:"payment_method,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	InstallationIncluded bool       `json:"installation_included"`
	Items                []itemView `json:"items"`
	Totals               totalsView `json:"totals"`
}

func toOrderDraftView(sessionID string, d *draft.OrderDraft) orderDraftView {
	return orderDraftView{
		SessionID:            sessionID,
		CustomerID:           d.CustomerID,
		OrderID:              d.OrderID,
		TaxMode:              string(d.Mode),
		Discount:             d.DiscountText,
		Status:               d.Status,
		PaymentStatus:        d.PaymentStatus,
		PaymentMethod:        d.PaymentMethod,
		Notes:                d.Notes,
		InstallationIncluded: d.InstallationIncluded,
		Items:                toItemViews(d.Items),
		Totals:               toTotalsView(d.Totals),
	}
}

type packDraftView struct {
	SessionID          string     `json:"session_id"`
	PackID             string     `json:"pack_id,omitempty"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	BasePrice          string     `json:"base_price"`
	EffectiveBasePrice float64    `json:"effective_base_price"`
	Active             bool       `json:"active"`
	Items              []itemView `json:"items"`
}

func toPackDraftView(sessionID string, d *draft.PackDraft) packDraftView {
	return packDraftView{
		SessionID:          sessionID,
		PackID:             d.PackID,
		Name:               d.Name,
		Description:        d.Description,
		BasePrice:          d.BasePriceText,
		EffectiveBasePrice: money(d.EffectiveBasePrice()),
		Active:             d.Active,
		Items:              toItemViews(d.Items),
	}
}

type orderView struct {
	ID                   string    `json:"id"`
	CustomerID           string    `json:"customer_id"`
	Status               string    `json:"status"`
	PaymentStatus        string    `json:"payment_status"`
	PaymentMethod        string    `json:"payment_method,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	InstallationIncluded bool      `json:"installation_included"`
	Subtotal             float64   `json:"subtotal"`
	Discount             float64   `json:"discount"`
	Tax                  float64   `json:"tax"`
	Total                float64   `json:"total"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toOrderView(o *order.Order) orderView {
	return orderView{
		ID:                   o.ID,
		CustomerID:           o.CustomerID,
		Status:               string(o.Status),
		PaymentStatus:        string(o.PaymentStatus),
		PaymentMethod:        o.PaymentMethod,
		Notes:                o.Notes,
		InstallationIncluded: o.InstallationIncluded,
		Subtotal:             money(o.Subtotal),
		Discount:             money(o.Discount),
		Tax:                  money(o.Tax),
		Total:                money(o.Total),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

type orderItemView struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	RefID     string  `json:"ref_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func toOrderItemViews(items []order.Item) []orderItemView {
	out := make([]orderItemView, len(items))
	for i, it := range items {
		out[i] = orderItemView{
			ID:        it.ID,
			Kind:      string(it.Kind),
			RefID:     it.RefID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: money(it.UnitPrice),
		}
	}
	return out
}

type packView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPackView(p *pack.Pack) packView {
	return packView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   money(p.BasePrice),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type customerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerView(c *customer.Customer) customerView {
	return customerView{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type leadView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Source     string    `json:"source,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toLeadView(l *lead.Lead) leadView {
	return leadView{
		ID:         l.ID,
		Name:       l.Name,
		Phone:      l.Phone,
		Email:      l.Email,
		Source:     l.Source,
		Status:     string(l.Status),
		Notes:      l.Notes,
		CustomerID: l.CustomerID,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

type invoiceView struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Subtotal   float64   `json:"subtotal"`
	Discount   float64   `json:"discount"`
	Tax        float64   `json:"tax"`
	Total      float64   `json:"total"`
	IssuedAt   time.Time `json:"issued_at"`
	DueAt      time.Time `json:"due_at"`
}

func toInvoiceView(inv *invoice.Invoice) invoiceView {
	return invoiceView{
		ID:         inv.ID,
		Number:     inv.Number,
		OrderID:    inv.OrderID,
		CustomerID: inv.CustomerID,
		Subtotal:   money(inv.Subtotal),
		Discount:   money(inv.Discount),
		Tax:        money(inv.Tax),
		Total:      money(inv.Total),
		IssuedAt:   inv.IssuedAt,
		DueAt:      inv.DueAt,
	}
}
