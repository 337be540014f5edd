// Package handler exposes the dashboard API over HTTP: catalog reads, draft
// editing sessions, CRM records, and invoice generation.
package handler

import (
	"net/http"
	"time"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/customer"
	"github.com/sorenh/crmdash/internal/domain/invoice"
	"github.com/sorenh/crmdash/internal/domain/lead"
	"github.com/sorenh/crmdash/internal/domain/order"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/session"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// AutosaveDelay is the debounce window for autosaving form fields.
	AutosaveDelay time.Duration
}

// Handler routes dashboard API requests to the domain layer.
type Handler struct {
	products  catalog.ProductRepository
	packsCat  catalog.PackRepository
	packs     pack.Repository
	orders    order.Repository
	customers customer.Repository
	leads     lead.Repository
	invoices  invoice.Repository

	orderService   *order.Service
	packService    *pack.Service
	leadService    *lead.Service
	invoiceService *invoice.Service

	sessions  *session.Store
	autosaver *session.Autosaver
}

// Deps bundles the Handler's domain dependencies.
type Deps struct {
	Products  catalog.ProductRepository
	PacksCat  catalog.PackRepository
	Packs     pack.Repository
	Orders    order.Repository
	Customers customer.Repository
	Leads     lead.Repository
	Invoices  invoice.Repository

	OrderService   *order.Service
	PackService    *pack.Service
	LeadService    *lead.Service
	InvoiceService *invoice.Service

	Sessions *session.Store
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cfg Config, deps Deps) *Handler {
	return &Handler{
		products:       deps.Products,
		packsCat:       deps.PacksCat,
		packs:          deps.Packs,
		orders:         deps.Orders,
		customers:      deps.Customers,
		leads:          deps.Leads,
		invoices:       deps.Invoices,
		orderService:   deps.OrderService,
		packService:    deps.PackService,
		leadService:    deps.LeadService,
		invoiceService: deps.InvoiceService,
		sessions:       deps.Sessions,
		autosaver:      session.NewAutosaver(cfg.AutosaveDelay),
	}
}

// Routes registers all API endpoints on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/packages", h.listPacks)
	mux.HandleFunc("GET /api/packages/{id}", h.getPack)

	mux.HandleFunc("POST /api/drafts/orders", h.openOrderDraft)
	mux.HandleFunc("GET /api/drafts/orders/{id}", h.getOrderDraft)
	mux.HandleFunc("DELETE /api/drafts/orders/{id}", h.closeOrderDraft)
	mux.HandleFunc("POST /api/drafts/orders/{id}/items", h.addOrderDraftItem)
	mux.HandleFunc("DELETE /api/drafts/orders/{id}/items/{index}", h.removeOrderDraftItem)
	mux.HandleFunc("PUT /api/drafts/orders/{id}/discount", h.setOrderDraftDiscount)
	mux.HandleFunc("PUT /api/drafts/orders/{id}/details", h.setOrderDraftDetails)
	mux.HandleFunc("POST /api/drafts/orders/{id}/commit", h.commitOrderDraft)

	mux.HandleFunc("POST /api/drafts/packages", h.openPackDraft)
	mux.HandleFunc("GET /api/drafts/packages/{id}", h.getPackDraft)
	mux.HandleFunc("DELETE /api/drafts/packages/{id}", h.closePackDraft)
	mux.HandleFunc("POST /api/drafts/packages/{id}/items", h.addPackDraftItem)
	mux.HandleFunc("DELETE /api/drafts/packages/{id}/items/{index}", h.removePackDraftItem)
	mux.HandleFunc("PUT /api/drafts/packages/{id}/details", h.setPackDraftDetails)
	mux.HandleFunc("POST /api/drafts/packages/{id}/commit", h.commitPackDraft)

	mux.HandleFunc("GET /api/customers", h.listCustomers)
	mux.HandleFunc("POST /api/customers", h.createCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.getCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.updateCustomer)
	mux.HandleFunc("PATCH /api/customers/{id}/notes", h.patchCustomerNotes)

	mux.HandleFunc("GET /api/leads", h.listLeads)
	mux.HandleFunc("POST /api/leads", h.createLead)
	mux.HandleFunc("POST /api/leads/{id}/convert", h.convertLead)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/invoice", h.createInvoice)
	mux.HandleFunc("GET /api/invoices", h.listInvoices)
	mux.HandleFunc("GET /api/invoices/{id}", h.getInvoice)
}
