package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/session"
)

type openPackDraftRequest struct {
	// PackID loads an existing package definition for editing. Empty opens
	// a blank draft.
	PackID string `json:"pack_id"`
}

func (h *Handler) openPackDraft(w http.ResponseWriter, r *http.Request) {
	var req openPackDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	snap, err := catalog.LoadSnapshot(ctx, h.products, h.packsCat)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	d := draft.NewPackDraft(snap)

	if req.PackID != "" {
		existing, err := h.packs.GetByID(ctx, req.PackID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		items, err := h.packs.ListItems(ctx, req.PackID)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}

		lineItems := toPackLineItems(snap, items)
		if missing := missingPackProductIDs(snap, items); len(missing) > 0 {
			ps, err := h.products.GetByIDs(ctx, missing)
			if err != nil {
				h.writeDomainError(w, r, err)
				return
			}
			snap.MergeProducts(ps)
			lineItems = toPackLineItems(snap, items)
		}

		d.Name = existing.Name
		d.Description = existing.Description
		d.BasePriceText = existing.BasePrice.String()
		d.Active = existing.Active
		d.LoadExisting(existing.ID, lineItems)
	}

	id := h.sessions.OpenPack(d)
	writeJSON(w, http.StatusCreated, toPackDraftView(id, d))
}

func missingPackProductIDs(snap *catalog.Snapshot, items []pack.Item) []string {
	var missing []string
	for _, it := range items {
		if _, ok := snap.Product(it.ProductID); !ok {
			missing = append(missing, it.ProductID)
		}
	}
	return missing
}

func toPackLineItems(snap *catalog.Snapshot, items []pack.Item) []draft.LineItem {
	out := make([]draft.LineItem, len(items))
	for i, it := range items {
		name := it.ProductID
		if p, ok := snap.Product(it.ProductID); ok {
			name = p.Name
		}
		out[i] = draft.LineItem{
			Kind:        draft.KindProduct,
			RefID:       it.ProductID,
			Name:        name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Overridden:  it.Overridden,
			PersistedID: it.ID,
		}
	}
	return out
}

func (h *Handler) packSession(w http.ResponseWriter, r *http.Request) (*session.Session, *draft.PackDraft, bool) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return nil, nil, false
	}
	if sess.Pack == nil {
		writeError(w, http.StatusNotFound, "draft session not found")
		return nil, nil, false
	}
	return sess, sess.Pack, true
}

func (h *Handler) getPackDraft(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.packSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPackDraftView(sess.ID, d))
}

func (h *Handler) closePackDraft(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type addPackItemRequest struct {
	RefID    string `json:"ref_id"`
	Quantity int    `json:"quantity"`
	// PriceOverride replaces the catalog price for this line when set.
	PriceOverride *float64 `json:"price_override"`
}

func (h *Handler) addPackDraftItem(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.packSession(w, r)
	if !ok {
		return
	}

	var req addPackItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var override *decimal.Decimal
	if req.PriceOverride != nil {
		v := decimal.NewFromFloat(*req.PriceOverride)
		override = &v
	}
	if err := d.AddProduct(req.RefID, req.Quantity, override); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPackDraftView(sess.ID, d))
}

func (h *Handler) removePackDraftItem(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.packSession(w, r)
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

	writeJSON(w, http.StatusOK, toPackDraftView(sess.ID, d))
}

type packDetailsRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	// BasePrice is free text; blank or unparseable means the base price is
	// derived from the line totals.
	BasePrice *string `json:"base_price"`
	Active    *bool   `json:"active"`
}

func (h *Handler) setPackDraftDetails(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.packSession(w, r)
	if !ok {
		return
	}

	var req packDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.BasePrice != nil {
		d.BasePriceText = *req.BasePrice
	}
	if req.Active != nil {
		d.Active = *req.Active
	}

	writeJSON(w, http.StatusOK, toPackDraftView(sess.ID, d))
}

func (h *Handler) commitPackDraft(w http.ResponseWriter, r *http.Request) {
	sess, d, ok := h.packSession(w, r)
	if !ok {
		return
	}

	if err := h.sessions.BeginSave(sess.ID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer h.sessions.EndSave(sess.ID)

	p, err := h.packService.Commit(r.Context(), d)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.sessions.Close(sess.ID)
	writeJSON(w, http.StatusOK, toPackView(p))
}
