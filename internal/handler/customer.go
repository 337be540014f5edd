package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sorenh/crmdash/internal/domain/customer"
)

type customerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]customerView, len(customers))
	for i := range customers {
		out[i] = toCustomerView(&customers[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	now := time.Now()
	c := &customer.Customer{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.customers.Create(r.Context(), c); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerView(c))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerView(c))
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	existing, err := h.customers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var req customerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.Notes = req.Notes
	existing.UpdatedAt = time.Now()
	if err := existing.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.customers.Update(r.Context(), existing); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerView(existing))
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// patchCustomerNotes accepts a notes edit and schedules the write through
// the debounced autosaver: rapid successive edits collapse into one write.
// The response acknowledges acceptance, not persistence.
func (h *Handler) patchCustomerNotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.customers.GetByID(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	var req notesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lg := zctx.From(r.Context())
	h.autosaver.Schedule(id, func(ctx context.Context) {
		if err := h.customers.UpdateNotes(ctx, id, req.Notes); err != nil {
			lg.Warn("autosave of customer notes failed",
				zap.String("customer_id", id), zap.Error(err))
		}
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}
