package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sorenh/crmdash/internal/domain/lead"
)

type leadRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Source string `json:"source"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leads.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	out := make([]leadView, len(leads))
	for i := range leads {
		out[i] = toLeadView(&leads[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "lead name must not be empty")
		return
	}

	status := lead.Status(req.Status)
	if req.Status == "" {
		status = lead.StatusNew
	}
	if !lead.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown lead status")
		return
	}

	now := time.Now()
	l := &lead.Lead{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Source:    req.Source,
		Status:    status,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.leads.Create(r.Context(), l); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeadView(l))
}

type convertLeadResponse struct {
	Customer customerView `json:"customer"`
	Warnings []string     `json:"warnings"`
}

func (h *Handler) convertLead(w http.ResponseWriter, r *http.Request) {
	c, warnings, err := h.leadService.Convert(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, convertLeadResponse{
		Customer: toCustomerView(c),
		Warnings: append([]string{}, warnings...),
	})
}
