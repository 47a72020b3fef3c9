package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peytondoyle/tabby/internal/auth"
	"github.com/peytondoyle/tabby/internal/middleware"
	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/internal/service"
)

// Handler carries the dependencies for all API endpoints.
type Handler struct {
	Bills         *service.BillService
	Authenticator auth.Authenticator
	Tokens        *auth.JWTManager
}

// Compute runs a stateless totals computation: full engine input in,
// BillTotals out. No auth, nothing stored.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	totals, err := h.Bills.Compute(req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// CreateBill persists a new bill and returns its computed totals.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	bill := req.toBill(middleware.GetUserID(r.Context()))
	totals, err := h.Bills.CreateBill(r.Context(), bill)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"bill": bill, "totals": totals})
}

// GetBill returns a stored bill snapshot.
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Bills.GetBill(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": bill})
}

// ListBills returns the caller's bills, newest first.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Bills.ListBills(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bills == nil {
		bills = []*models.Bill{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bills": bills})
}

// UpdateBill replaces a bill snapshot and returns fresh totals.
func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	bill := req.toBill(userID)
	bill.ID = chi.URLParam(r, "billID")
	totals, err := h.Bills.UpdateBill(r.Context(), userID, bill)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": bill, "totals": totals})
}

// DeleteBill removes a bill.
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	err := h.Bills.DeleteBill(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "billID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTotals recomputes and returns the full breakdown for a bill.
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Bills.ComputeTotals(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// GetPersonTotal returns one person's breakdown, for UI components that
// only need a single number.
func (h *Handler) GetPersonTotal(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Bills.ComputeTotals(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	personID := chi.URLParam(r, "personID")
	pt, ok := totals.PersonTotal(personID)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "person not on this bill", nil)
		return
	}
	writeJSON(w, http.StatusOK, pt)
}

// AssignItems replaces one person's item assignments with even splits.
func (h *Handler) AssignItems(w http.ResponseWriter, r *http.Request) {
	var req assignItemsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	totals, err := h.Bills.AssignItems(r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "billID"),
		chi.URLParam(r, "personID"),
		req.ItemIDs,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// Register creates a new user account and returns a session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, user)
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, user *models.User) {
	token, err := h.Tokens.Generate(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, map[string]any{"user": user, "token": token})
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return false
	}
	return true
}
