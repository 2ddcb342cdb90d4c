package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// LedgerService owns the aggregate. Every mutation builds a complete new
// state value through the core reducers and replaces the held one — nothing
// ever edits the aggregate in place — then hands the snapshot to the store
// on a best-effort background save.
type LedgerService struct {
	mu    sync.Mutex
	state core.State

	store       storage.Store
	amqpClient  *amqp.Client
	saveTimeout time.Duration
	saves       sync.WaitGroup
}

func NewLedgerService(store storage.Store, amqpClient *amqp.Client, saveTimeout time.Duration) *LedgerService {
	if saveTimeout <= 0 {
		saveTimeout = 5 * time.Second
	}
	return &LedgerService{
		store:       store,
		amqpClient:  amqpClient,
		saveTimeout: saveTimeout,
		state:       core.NewState(nil, nil),
	}
}

// Load restores the last persisted document through normalization. It runs
// once at startup, before any mutation; a missing or unreadable document
// degrades to an empty aggregate and is never fatal.
func (s *LedgerService) Load(ctx context.Context) {
	raw, ok, err := s.store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load saved ledger, starting empty", "error", err)
		s.replace(core.NormalizeState(nil, time.Now()))
		return
	}
	if !ok {
		slog.InfoContext(ctx, "No saved ledger found, starting empty")
		s.replace(core.NormalizeState(nil, time.Now()))
		return
	}

	state := core.NormalizeState(raw, time.Now())
	slog.InfoContext(ctx, "Ledger loaded",
		"accounts", len(state.Accounts),
		"transactions", len(state.Transactions))
	s.replace(state)
}

// State returns the current aggregate value.
func (s *LedgerService) State() core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Summary returns the dashboard view with up to recent latest transactions.
func (s *LedgerService) Summary(recent int) core.Summary {
	return core.Summarize(s.State(), recent)
}

// ListTransactions returns the transactions matching the filter together
// with their income/expense/net totals.
func (s *LedgerService) ListTransactions(f core.Filter) ([]core.Transaction, core.Totals) {
	items := core.FilterTransactions(s.State().Transactions, f, time.Now())
	return items, core.SumTotals(items)
}

// AddAccount appends a new account from the draft and rederives balances.
func (s *LedgerService) AddAccount(ctx context.Context, draft core.AccountDraft) (core.Account, error) {
	if err := draft.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("validate account draft: %w", err)
	}

	account := core.NewAccount(draft)
	snapshot := s.apply(func(prior core.State) core.State {
		return prior.AddAccount(account)
	})
	// Pick up the derived balance.
	for _, a := range snapshot.Accounts {
		if a.ID == account.ID {
			account = a
			break
		}
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", account.ID,
		"initial", account.Initial)

	s.persist(snapshot)
	s.publishChange(ctx, amqp.EntityAccount, amqp.ActionCreated, account.ID)
	return account, nil
}

// AddTransaction prepends a new transaction from the draft and rederives
// balances.
func (s *LedgerService) AddTransaction(ctx context.Context, draft core.TransactionDraft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction draft: %w", err)
	}

	tx := core.NewTransaction(draft, time.Now())
	snapshot := s.apply(func(prior core.State) core.State {
		return prior.AddTransaction(tx)
	})

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", tx.ID,
		"account_id", tx.AccountID,
		"tx_type", string(tx.Type),
		"amount", tx.Amount,
		"category", tx.Category)

	s.persist(snapshot)
	s.publishChange(ctx, amqp.EntityTransaction, amqp.ActionCreated, tx.ID)
	return tx, nil
}

// EditTransaction merges the patch over the matching transaction. An unknown
// id is a silent no-op.
func (s *LedgerService) EditTransaction(ctx context.Context, patch core.TransactionPatch) error {
	if err := patch.Validate(); err != nil {
		return fmt.Errorf("validate transaction patch: %w", err)
	}

	snapshot := s.apply(func(prior core.State) core.State {
		return prior.EditTransaction(patch)
	})

	slog.InfoContext(ctx, "Transaction edited", "transaction_id", patch.ID)

	s.persist(snapshot)
	s.publishChange(ctx, amqp.EntityTransaction, amqp.ActionUpdated, patch.ID)
	return nil
}

// DeleteTransaction removes the matching transaction, no-op when absent.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	snapshot := s.apply(func(prior core.State) core.State {
		return prior.DeleteTransaction(id)
	})

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)

	s.persist(snapshot)
	s.publishChange(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	return nil
}

// Flush waits for in-flight background saves. Mainly for shutdown and tests.
func (s *LedgerService) Flush() {
	s.saves.Wait()
}

// Close flushes pending saves and closes the owned resources.
func (s *LedgerService) Close() error {
	s.Flush()

	var errs []error
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

func (s *LedgerService) replace(state core.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *LedgerService) apply(mutate func(core.State) core.State) core.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = mutate(s.state)
	return s.state
}

// persist hands the snapshot to the store in the background. A failed save
// is logged and otherwise ignored: it never blocks or rolls back the
// in-memory mutation, and there is no retry.
func (s *LedgerService) persist(snapshot core.State) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		if err := s.store.Save(ctx, snapshot); err != nil {
			slog.ErrorContext(ctx, "Failed to persist ledger snapshot",
				"error", err,
				"accounts", len(snapshot.Accounts),
				"transactions", len(snapshot.Transactions))
		}
	}()
}

func (s *LedgerService) publishChange(ctx context.Context, entity, action, id string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishChange(ctx, entity, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"error", err,
			"entity", entity,
			"action", action,
			"id", id)
	}
}
