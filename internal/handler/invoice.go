package handler

import (
	"net/http"
)

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoiceService.CreateForOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceView(inv))
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]invoiceView, len(invoices))
	for i := range invoices {
		out[i] = toInvoiceView(&invoices[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceView(inv))
}
