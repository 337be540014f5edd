package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/customer"
	"github.com/sorenh/crmdash/internal/domain/draft"
	"github.com/sorenh/crmdash/internal/domain/invoice"
	"github.com/sorenh/crmdash/internal/domain/lead"
	"github.com/sorenh/crmdash/internal/domain/order"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/session"
)

// errorBody is the JSON error envelope returned by every endpoint.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// writeDomainError maps domain errors to HTTP statuses. Unrecognized errors
// are treated as storage failures and reported as 502.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *draft.ValidationError
		nferr *draft.NotFoundError
		iserr *draft.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, draft.ErrItemIndex):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &nferr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &iserr):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "draft session not found")
	case errors.Is(err, session.ErrSaveInProgress):
		writeError(w, http.StatusConflict, "save already in progress")
	case errors.Is(err, lead.ErrAlreadyConverted):
		writeError(w, http.StatusConflict, "lead already converted")
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrPackNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, lead.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, pack.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		zctx.From(r.Context()).Error("storage failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// money renders a decimal amount for JSON responses. Rounding happens only
// here, never inside the calculation path.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
