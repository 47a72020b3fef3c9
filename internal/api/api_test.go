package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peytondoyle/tabby/internal/auth"
	"github.com/peytondoyle/tabby/internal/models"
	"github.com/peytondoyle/tabby/internal/service"
	"github.com/peytondoyle/tabby/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "tabby.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewJWTManager("test-secret-at-least-32-bytes-long!", time.Hour)
	router := NewRouter(RouterConfig{
		Handler: &Handler{
			Bills:         service.NewBillService(store, nil),
			Authenticator: auth.NewPasswordAuthenticator(store),
			Tokens:        tokens,
		},
		Tokens: tokens,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func computePayload() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"id": "i1", "label": "Pizza", "price": 20.0, "quantity": 1},
			{"id": "i2", "label": "Salad", "price": 10.0, "quantity": 1},
		},
		"people": []map[string]any{
			{"id": "p1", "name": "Ana"},
			{"id": "p2", "name": "Ben"},
		},
		"shares": []map[string]any{
			{"item_id": "i1", "person_id": "p1", "weight": 1},
			{"item_id": "i2", "person_id": "p2", "weight": 1},
		},
		"tax": 3.0,
	}
}

func TestComputeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/compute", "", computePayload())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var totals models.BillTotals
	decode(t, resp, &totals)
	assert.Equal(t, 33.00, totals.GrandTotal)
	assert.Equal(t, 22.00, totals.TotalFor("p1"))
	assert.Equal(t, 11.00, totals.TotalFor("p2"))
	assert.Equal(t, models.ReconciliationMethod, totals.PennyReconciliation.Method)
}

func TestComputeEndpointRejectsBadShares(t *testing.T) {
	srv := newTestServer(t)

	payload := computePayload()
	payload["shares"] = []map[string]any{
		{"item_id": "ghost", "person_id": "p1", "weight": 1},
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/compute", "", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestComputeEndpointRejectsZeroWeightAtBoundary(t *testing.T) {
	srv := newTestServer(t)

	payload := computePayload()
	payload["shares"] = []map[string]any{
		{"item_id": "i1", "person_id": "p1", "weight": 0},
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/compute", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthAndBillLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Bills require auth.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/bills", "", computePayload())
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Register, then log in.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]any{
		"email": "ana@example.com", "display_name": "Ana", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	decode(t, resp, &session)
	require.NotEmpty(t, session.Token)

	// Create a bill.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/bills", session.Token, computePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Bill   *models.Bill       `json:"bill"`
		Totals *models.BillTotals `json:"totals"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.Bill.ID)
	assert.Equal(t, 33.00, created.Totals.GrandTotal)

	billURL := fmt.Sprintf("%s/api/v1/bills/%s", srv.URL, created.Bill.ID)

	// Read it back and fetch totals.
	resp = doJSON(t, http.MethodGet, billURL, session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, billURL+"/totals", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var totals models.BillTotals
	decode(t, resp, &totals)
	assert.Equal(t, 33.00, totals.GrandTotal)

	// Per-person lookup.
	resp = doJSON(t, http.MethodGet, billURL+"/totals/p2", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pt models.PersonTotal
	decode(t, resp, &pt)
	assert.Equal(t, 11.00, pt.Total)

	resp = doJSON(t, http.MethodGet, billURL+"/totals/nobody", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Reassign: Ana joins the salad, so she and Ben split it evenly.
	resp = doJSON(t, http.MethodPut, billURL+"/people/p1/items", session.Token, map[string]any{
		"item_ids": []string{"i1", "i2"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &totals)
	assert.Equal(t, 27.50, totals.TotalFor("p1"))
	assert.Equal(t, 5.50, totals.TotalFor("p2"))

	// List and delete.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/bills", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Bills []*models.Bill `json:"bills"`
	}
	decode(t, resp, &list)
	assert.Len(t, list.Bills, 1)

	resp = doJSON(t, http.MethodDelete, billURL, session.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, billURL, session.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]any{
		"email": "ben@example.com", "display_name": "Ben", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", map[string]any{
		"email": "cal@example.com", "display_name": "Cal", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", map[string]any{
		"email": "cal@example.com", "password": "battery-staple",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
