package core

import (
	"reflect"
	"testing"
	"time"
)

func seedState() State {
	return NewState(
		[]Account{{ID: "A", Name: "Banco", Initial: 100}},
		[]Transaction{{ID: "t1", AccountID: "A", Amount: 25, Type: Gasto, Category: "comida", Date: "2025-06-01"}},
	)
}

func TestNewStateDerivesBalances(t *testing.T) {
	s := seedState()
	if s.Accounts[0].Balance != 75 {
		t.Fatalf("expected 75, got %v", s.Accounts[0].Balance)
	}
}

func TestAddAccountInitialFromDraft(t *testing.T) {
	initial := 40.0
	cases := []struct {
		name  string
		draft AccountDraft
		want  float64
	}{
		{"explicit initial wins", AccountDraft{Name: "Caja", Initial: &initial, Balance: 99}, 40},
		{"balance seeds initial", AccountDraft{Name: "Caja", Balance: 15}, 15},
		{"empty draft seeds zero", AccountDraft{Name: "Caja"}, 0},
	}
	for _, tc := range cases {
		s := seedState().AddAccount(NewAccount(tc.draft))
		if len(s.Accounts) != 2 {
			t.Fatalf("%s: expected 2 accounts, got %d", tc.name, len(s.Accounts))
		}
		got := s.Accounts[1]
		if got.Initial != tc.want || got.Balance != tc.want {
			t.Fatalf("%s: expected initial=balance=%v, got initial=%v balance=%v",
				tc.name, tc.want, got.Initial, got.Balance)
		}
		// Existing account untouched.
		if s.Accounts[0].Initial != 100 {
			t.Fatalf("%s: existing initial changed to %v", tc.name, s.Accounts[0].Initial)
		}
	}
}

func TestAddTransactionPrependsAndRecomputes(t *testing.T) {
	s := seedState()
	tx := NewTransaction(TransactionDraft{
		AccountID: "A",
		Amount:    10,
		Type:      Ingreso,
	}, time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))

	next := s.AddTransaction(tx)
	if len(next.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(next.Transactions))
	}
	if next.Transactions[0].ID != tx.ID {
		t.Fatal("new transaction must be first")
	}
	if next.Transactions[0].Category != DefaultCategory {
		t.Fatalf("expected default category, got %q", next.Transactions[0].Category)
	}
	if next.Transactions[0].Date != "2025-10-31" {
		t.Fatalf("expected today's date, got %q", next.Transactions[0].Date)
	}
	if next.Accounts[0].Balance != 85 {
		t.Fatalf("expected 85, got %v", next.Accounts[0].Balance)
	}
	// Prior value unchanged.
	if len(s.Transactions) != 1 || s.Accounts[0].Balance != 75 {
		t.Fatalf("prior state mutated: %+v", s)
	}
}

func TestEditTransactionMergesPatch(t *testing.T) {
	s := seedState()
	amount := 5.0
	category := "transporte"

	next := s.EditTransaction(TransactionPatch{
		ID:       "t1",
		Amount:   &amount,
		Category: &category,
	})

	got := next.Transactions[0]
	if got.Amount != 5 || got.Category != "transporte" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Type != Gasto || got.Date != "2025-06-01" || got.AccountID != "A" {
		t.Fatalf("unpatched fields must stay: %+v", got)
	}
	if next.Accounts[0].Balance != 95 {
		t.Fatalf("expected 95 after edit, got %v", next.Accounts[0].Balance)
	}
}

func TestEditTransactionUnknownIDIsNoop(t *testing.T) {
	s := seedState()
	amount := 999.0

	next := s.EditTransaction(TransactionPatch{ID: "missing", Amount: &amount})
	if !reflect.DeepEqual(s, next) {
		t.Fatalf("unknown id must be a no-op:\n%+v\n%+v", s, next)
	}
}

func TestDeleteTransactionRestoresInitial(t *testing.T) {
	s := seedState()

	next := s.DeleteTransaction("t1")
	if len(next.Transactions) != 0 {
		t.Fatalf("expected no transactions, got %d", len(next.Transactions))
	}
	if next.Accounts[0].Balance != next.Accounts[0].Initial {
		t.Fatalf("deleting every transaction must restore initial, got %v", next.Accounts[0].Balance)
	}

	// Deleting an absent id changes nothing.
	same := s.DeleteTransaction("missing")
	if !reflect.DeepEqual(s, same) {
		t.Fatalf("delete of unknown id must be a no-op")
	}
}

func TestDraftValidation(t *testing.T) {
	if err := (AccountDraft{Name: "  "}).Validate(); err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if err := (AccountDraft{Name: "Banco"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if err := (TransactionDraft{AccountID: "A", Amount: 0}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := (TransactionDraft{AccountID: "", Amount: 5}).Validate(); err != ErrAccountRequired {
		t.Fatalf("expected ErrAccountRequired, got %v", err)
	}
	if err := (TransactionDraft{AccountID: "A", Amount: 5}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := -1.0
	if err := (TransactionPatch{ID: "t1", Amount: &bad}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := (TransactionPatch{ID: "t1"}).Validate(); err != nil {
		t.Fatalf("empty patch is valid, got %v", err)
	}
}

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
	}{
		{"ingreso", Ingreso},
		{"gasto", Gasto},
		{"income", Ingreso},
		{"expense", Gasto},
		{"", Gasto},
	}
	for _, tc := range cases {
		if got := NormalizeType(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
