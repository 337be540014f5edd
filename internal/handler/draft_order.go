package handler

import (
	"net/http"
	"strconv"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/order"
	"github.com/sorenh/crmdash/internal/domain/pricing"
	"github.com/sorenh/crmdash/internal/session"
)

type openOrderDraftRequest struct {
	CustomerID string `json:"customer_id"`
	// Mode selects the workflow: "create" opens an empty draft, "update"
	// loads the order named by OrderID.
	Mode    string `json:"mode"`
	OrderID string `json:"order_id"`
}

func (h *Handler) openOrderDraft(w http.ResponseWriter, r *http.Request) {
	var req openOrderDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	snap, err := catalog.LoadSnapshot(ctx, h.products, h.packsCat)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	mode := pricing.TaxIncluded
	if req.Mode == "update" {
		mode = pricing.TaxAdded
	}

	customerID := req.CustomerID
	var existing *order.Order
	var items []order.Item
	if req.Mode == "update" {
		if req.OrderID == "" {
			writeError(w, http.StatusBadRequest, "order_id is required in update mode")
			return
		}
		existing, err = h.orders.GetByID(ctx, req.OrderID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		items, err = h.orders.ListItems(ctx, req.OrderID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		customerID = existing.CustomerID

		// The loaded order may reference products no longer active and
		// therefore absent from the snapshot.
		if missing := missingProductIDs(snap, items); len(missing) > 0 {
			ps, err := h.products.GetByIDs(ctx, missing)
			if err != nil {
				h.writeDomainError(w, r, err)
				return
			}
			snap.MergeProducts(ps)
		}
	}

	d, err := draft.NewOrderDraft(customerID, snap, mode)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if existing != nil {
		d.LoadExisting(existing.ID, toLineItems(items))
		d.Status = string(existing.Status)
		d.PaymentStatus = string(existing.PaymentStatus)
		d.PaymentMethod = existing.PaymentMethod
		d.Notes = existing.Notes
		d.InstallationIncluded = existing.InstallationIncluded
		d.CreatedDate = existing.CreatedAt
		d.SetDiscount(discountTextFor(existing))
	}

	id := h.sessions.OpenOrder(d)
	writeJSON(w, http.StatusCreated, toOrderDraftView(id, d))
}

// discountTextFor rebuilds the discount field from the stored absolute
// amount. The original percent text is not persisted.
func discountTextFor(o *order.Order) string {
	if o.Discount.IsZero() {
		return ""
	}
	return o.Discount.String()
}

func missingProductIDs(snap *catalog.Snapshot, items []order.Item) []string {
	var missing []string
	for _, it := range items {
		if it.Kind != draft.KindProduct {
			continue
		}
		if _, ok := snap.Product(it.RefID); !ok {
			missing = append(missing, it.RefID)
		}
	}
	return missing
}

func toLineItems(items []order.Item) []draft.LineItem {
	out := make([]draft.LineItem, len(items))
	for i, it := range items {
		out[i] = draft.LineItem{
			Kind:        it.Kind,
			RefID:       it.RefID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			PersistedID: it.ID,
		}
	}
	return out
}

func (h *Handler) orderSession(w http.ResponseWriter, r *http.Request) (*session.Session, *draft.OrderDraft, bool) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, nil, false
	}
	if sess.Order == nil {
		writeError(w, http.StatusNotFound, "draft session not found")
		return nil, nil, false
	}
	return sess, sess.Order, true
}

func (h *Handler) getOrderDraft(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOrderDraftView(sess.ID, d))
}

func (h *Handler) closeOrderDraft(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	Kind     string `json:"kind"`
	RefID    string `json:"ref_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) addOrderDraftItem(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var err error
	switch draft.Kind(req.Kind) {
	case draft.KindProduct:
		err = d.AddProduct(req.RefID, req.Quantity)
	case draft.KindPack:
		err = d.AddPack(req.RefID, req.Quantity)
	default:
		writeError(w, http.StatusBadRequest, "kind must be product or pack")
		return
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDraftView(sess.ID, d))
}

func (h *Handler) removeOrderDraftItem(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := d.Remove(index); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDraftView(sess.ID, d))
}

type discountRequest struct {
	Discount string `json:"discount"`
}

func (h *Handler) setOrderDraftDiscount(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}

	var req discountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d.SetDiscount(req.Discount)

	writeJSON(w, http.StatusOK, toOrderDraftView(sess.ID, d))
}

type orderDetailsRequest struct {
	Status               *string `json:"status"`
	PaymentStatus        *string `json:"payment_status"`
	PaymentMethod        *string `json:"payment_method"`
	Notes                *string `json:"notes"`
	InstallationIncluded *bool   `json:"installation_included"`
}

func (h *Handler) setOrderDraftDetails(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}

	var req orderDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status != nil {
		if !order.ValidStatus(order.Status(*req.Status)) {
			writeError(w, http.StatusBadRequest, "unknown order status")
			return
		}
		d.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if !order.ValidPaymentStatus(order.PaymentStatus(*req.PaymentStatus)) {
			writeError(w, http.StatusBadRequest, "unknown payment status")
			return
		}
		d.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		d.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	if req.InstallationIncluded != nil {
		d.InstallationIncluded = *req.InstallationIncluded
	}

	writeJSON(w, http.StatusOK, toOrderDraftView(sess.ID, d))
}

type commitOrderResponse struct {
	Order    orderView `json:"order"`
	Warnings []string  `json:"warnings"`
}

func (h *Handler) commitOrderDraft(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.orderSession(w, r)
	if !ok {
		return
	}

	if err := h.sessions.BeginSave(sess.ID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer h.sessions.EndSave(sess.ID)

	res, err := h.orderService.Commit(r.Context(), d)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.sessions.Close(sess.ID)
	writeJSON(w, http.StatusOK, commitOrderResponse{
		Order:    toOrderView(res.Order),
		Warnings: append([]string{}, res.Warnings...),
	})
}
