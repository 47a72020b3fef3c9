package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/peytondoyle/tabby/internal/auth"
	"github.com/peytondoyle/tabby/internal/calculator"
	"github.com/peytondoyle/tabby/internal/service"
	"github.com/peytondoyle/tabby/internal/storage"
)

// errorBody is the canonical error payload: {"error": {"code", "message"}}.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeJSON writes the provided value as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders an error response using the canonical error shape.
func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, map[string]any{
		"error": errorBody{Code: code, Message: message, Details: details},
	})
}

// writeDomainError maps sentinel errors from the lower layers to HTTP
// status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculator.ErrInvalidShareWeight),
		errors.Is(err, calculator.ErrOrphanedItem),
		errors.Is(err, calculator.ErrUnknownItem),
		errors.Is(err, calculator.ErrUnknownPerson):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_SHARES", err.Error(), nil)
	case errors.Is(err, calculator.ErrReconciliationMismatch):
		// Engine defect, not caller error. Fail loudly.
		slog.Error("reconciliation invariant violated", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "totals computation failed", nil)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
	default:
		slog.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
