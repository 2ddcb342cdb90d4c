package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewLedgerService(storage.NewMemoryStore(), nil, time.Second)
	svc.Load(context.Background())

	s := NewServer(":0", svc, 6)
	t.Cleanup(func() {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() = %v", err)
		}
		if err := svc.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
	})
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if w := doRequest(t, s, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", w.Code)
	}
	if w := doRequest(t, s, http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /readyz = %d, want 200", w.Code)
	}
}

func TestCreateAccount(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/accounts", `{"name":"Banco","initial":150}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/accounts = %d, body %s", w.Code, w.Body.String())
	}

	var account core.Account
	decodeBody(t, w, &account)
	if account.ID == "" || account.Name != "Banco" || account.Balance != 150 {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	s := newTestServer(t)

	if w := doRequest(t, s, http.MethodPost, "/api/accounts", `{"name":""}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST empty name = %d, want 422", w.Code)
	}
	if w := doRequest(t, s, http.MethodPost, "/api/accounts", `{not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("POST malformed body = %d, want 400", w.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/accounts", `{"name":"Efectivo","initial":100}`)
	var account core.Account
	decodeBody(t, w, &account)

	w = doRequest(t, s, http.MethodPost, "/api/transactions",
		`{"accountId":"`+account.ID+`","amount":30,"type":"gasto","category":"comida"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/transactions = %d, body %s", w.Code, w.Body.String())
	}
	var tx core.Transaction
	decodeBody(t, w, &tx)
	if tx.Type != core.Gasto || tx.Amount != 30 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	// Balance reflects the expense.
	w = doRequest(t, s, http.MethodGet, "/api/state", "")
	var state core.State
	decodeBody(t, w, &state)
	if state.Accounts[0].Balance != 70 {
		t.Fatalf("Balance = %v, want 70", state.Accounts[0].Balance)
	}

	// Patch the amount down.
	w = doRequest(t, s, http.MethodPatch, "/api/transactions/"+tx.ID, `{"amount":10}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH = %d, body %s", w.Code, w.Body.String())
	}
	w = doRequest(t, s, http.MethodGet, "/api/state", "")
	decodeBody(t, w, &state)
	if state.Accounts[0].Balance != 90 {
		t.Fatalf("Balance after edit = %v, want 90", state.Accounts[0].Balance)
	}

	// Editing an unknown id is a no-op, still 200.
	if w := doRequest(t, s, http.MethodPatch, "/api/transactions/missing", `{"amount":5}`); w.Code != http.StatusOK {
		t.Fatalf("PATCH unknown id = %d, want 200", w.Code)
	}

	w = doRequest(t, s, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE = %d", w.Code)
	}
	w = doRequest(t, s, http.MethodGet, "/api/state", "")
	decodeBody(t, w, &state)
	if len(state.Transactions) != 0 || state.Accounts[0].Balance != 100 {
		t.Fatalf("state after delete: %+v", state)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/transactions", `{"accountId":"a1","amount":-5,"type":"gasto"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST negative amount = %d, want 422", w.Code)
	}
	w = doRequest(t, s, http.MethodPost, "/api/transactions", `{"amount":5,"type":"gasto"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST missing account = %d, want 422", w.Code)
	}
}

func TestListTransactionsFilter(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/accounts", `{"name":"Efectivo","initial":100}`)
	var account core.Account
	decodeBody(t, w, &account)

	doRequest(t, s, http.MethodPost, "/api/transactions",
		`{"accountId":"`+account.ID+`","amount":30,"type":"gasto","category":"comida"}`)
	doRequest(t, s, http.MethodPost, "/api/transactions",
		`{"accountId":"`+account.ID+`","amount":50,"type":"ingreso"}`)

	w = doRequest(t, s, http.MethodGet, "/api/transactions?type=gasto", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/transactions = %d", w.Code)
	}
	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
		Totals       core.Totals        `json:"totals"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Category != "comida" {
		t.Fatalf("filtered transactions: %+v", resp.Transactions)
	}
	if resp.Totals.Expense != 30 || resp.Totals.Net != -30 {
		t.Fatalf("totals: %+v", resp.Totals)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/api/accounts", `{"name":"Efectivo","initial":100}`)
	var account core.Account
	decodeBody(t, w, &account)
	doRequest(t, s, http.MethodPost, "/api/transactions",
		`{"accountId":"`+account.ID+`","amount":25,"type":"gasto","category":"salud"}`)

	w = doRequest(t, s, http.MethodGet, "/api/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/summary = %d", w.Code)
	}
	var summary core.Summary
	decodeBody(t, w, &summary)
	if summary.TotalBalance != 75 || summary.AccountCount != 1 {
		t.Fatalf("summary: %+v", summary)
	}
	if len(summary.ByCategory) != 1 || summary.ByCategory[0].Name != "salud" {
		t.Fatalf("ByCategory: %+v", summary.ByCategory)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/categories = %d", w.Code)
	}
	var categories []core.Category
	decodeBody(t, w, &categories)
	if len(categories) != len(core.Categories) {
		t.Fatalf("got %d categories, want %d", len(categories), len(core.Categories))
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("request 61 should be limited")
	}
	// Other clients are tracked independently.
	if !rl.allow("10.0.0.2") {
		t.Fatal("fresh client should be allowed")
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "192.168.1.5:1234", "", "", "192.168.1.5"},
		{"forwarded", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "", "203.0.113.9"},
		{"real ip", "10.0.0.1:80", "", "203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Fatalf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
