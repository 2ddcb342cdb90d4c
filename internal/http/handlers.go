package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finanzas/internal/core"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady reports readiness once the ledger is wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.State())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	recent := s.recentLimit
	if v := strings.TrimSpace(r.URL.Query().Get("recent")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			recent = n
		}
	}
	writeJSON(w, http.StatusOK, s.ledger.Summary(recent))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	items, totals := s.ledger.ListTransactions(parseFilter(r))
	if items == nil {
		items = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": items,
		"totals":       totals,
	})
}

type accountRequest struct {
	Name    string   `json:"name"`
	Initial *float64 `json:"initial"`
	Balance float64  `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.ledger.AddAccount(r.Context(), core.AccountDraft{
		Name:    sanitizeInput(req.Name),
		Initial: req.Initial,
		Balance: req.Balance,
	})
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

type transactionRequest struct {
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Desc      string  `json:"desc"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.ledger.AddTransaction(r.Context(), core.TransactionDraft{
		AccountID: strings.TrimSpace(req.AccountID),
		Amount:    req.Amount,
		Type:      core.NormalizeType(req.Type),
		Category:  sanitizeInput(req.Category),
		Date:      strings.TrimSpace(req.Date),
		Desc:      sanitizeInput(req.Desc),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "Failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

type transactionPatchRequest struct {
	AccountID *string  `json:"accountId"`
	Amount    *float64 `json:"amount"`
	Type      *string  `json:"type"`
	Category  *string  `json:"category"`
	Date      *string  `json:"date"`
	Desc      *string  `json:"desc"`
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req transactionPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := core.TransactionPatch{
		ID:        id,
		AccountID: req.AccountID,
		Amount:    req.Amount,
		Category:  req.Category,
		Date:      req.Date,
		Desc:      req.Desc,
	}
	if req.Type != nil {
		t := core.NormalizeType(*req.Type)
		patch.Type = &t
	}

	if err := s.ledger.EditTransaction(r.Context(), patch); err != nil {
		s.writeDomainError(w, r, err, "Failed to edit transaction")
		return
	}

	// An unknown id is a no-op, not an error: still 200.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err, "Failed to delete transaction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrNameRequired),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrAccountRequired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), msg,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
