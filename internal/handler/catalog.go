package handler

import (
	"net/http"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = toProductView(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(*p))
}

func (h *Handler) listPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.packsCat.ListActive(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]packCatalogView, len(packs))
	for i, p := range packs {
		out[i] = toPackCatalogView(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getPack(w http.ResponseWriter, r *http.Request) {
	p, err := h.packsCat.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPackCatalogView(*p))
}
