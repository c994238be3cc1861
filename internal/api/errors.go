package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/books"
	"github.com/cleared-dev/bookkeeper/internal/inventory"
	"github.com/cleared-dev/bookkeeper/internal/journal"
	"github.com/cleared-dev/bookkeeper/internal/posting"
	"github.com/cleared-dev/bookkeeper/internal/reports"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure maps a books error to a status code. Anything unrecognised
// is a rejected change.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verrs journal.ValidationErrors
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, inventory.ErrItemNotFound),
		errors.Is(err, books.ErrNoteNotFound),
		errors.Is(err, reports.ErrUnknownAccount):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, books.ErrAccountInUse),
		errors.Is(err, books.ErrOpeningBalanceExists),
		errors.Is(err, accounts.ErrDuplicateName),
		errors.Is(err, accounts.ErrDuplicateCode):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case errors.As(err, &stockErr):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity)
	case errors.As(err, &verrs):
		writeError(w, r, err.Error(), "UNBALANCED_ENTRY", http.StatusUnprocessableEntity)
	case errors.Is(err, posting.ErrInvalidDocument):
		writeError(w, r, err.Error(), "INVALID_DOCUMENT", http.StatusUnprocessableEntity)
	default:
		writeError(w, r, err.Error(), "REJECTED", http.StatusUnprocessableEntity)
	}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, fmt.Sprintf("invalid request body: %v", err), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
