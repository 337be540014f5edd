package handler

import (
	"net/http"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]orderView, len(orders))
	for i := range orders {
		out[i] = toOrderView(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type orderDetailResponse struct {
	orderView
	Items []orderItemView `json:"items"`
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items, err := h.orders.ListItems(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		orderView: toOrderView(o),
		Items:     toOrderItemViews(items),
	})
}
