package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Ingreso is an income movement: it adds to the account balance.
	Ingreso TxType = "ingreso"
	// Gasto is an expense movement: it subtracts from the account balance.
	Gasto TxType = "gasto"

	// DefaultCategory is assigned to transactions persisted without one.
	DefaultCategory = "General"
	// DefaultAccountName is assigned to accounts persisted without a name.
	DefaultAccountName = "Cuenta"

	// DateLayout is the calendar-date form used everywhere in the model.
	DateLayout = "2006-01-02"
)

type (
	TxType string

	// Account is a money container. Balance is always derived: it equals
	// Initial plus the signed sum of every transaction referencing the
	// account, and is overwritten on every recomputation pass.
	Account struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Initial float64 `json:"initial"`
		Balance float64 `json:"balance"`
	}

	// Transaction is a single income or expense movement. AccountID is a
	// non-owning reference: a transaction may point at an account that no
	// longer matches anything, in which case it stays stored but counts
	// toward no balance.
	Transaction struct {
		ID        string  `json:"id"`
		AccountID string  `json:"accountId"`
		Amount    float64 `json:"amount"`
		Type      TxType  `json:"type"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		Desc      string  `json:"desc,omitempty"`
	}

	// State is the root aggregate: both collections, serialized and
	// replaced as one unit on every mutation.
	State struct {
		Accounts     []Account     `json:"accounts"`
		Transactions []Transaction `json:"transactions"`
	}

	// AccountDraft is the user input for a new account. Initial wins when
	// set explicitly; otherwise Balance seeds the initial value.
	AccountDraft struct {
		Name    string   `json:"name"`
		Initial *float64 `json:"initial"`
		Balance float64  `json:"balance"`
	}

	// TransactionDraft is the user input for a new transaction.
	TransactionDraft struct {
		AccountID string  `json:"accountId"`
		Amount    float64 `json:"amount"`
		Type      TxType  `json:"type"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		Desc      string  `json:"desc"`
	}

	// TransactionPatch carries a partial edit. Nil fields are left
	// untouched; ID selects the record and is never changed.
	TransactionPatch struct {
		ID        string   `json:"id"`
		AccountID *string  `json:"accountId"`
		Amount    *float64 `json:"amount"`
		Type      *TxType  `json:"type"`
		Category  *string  `json:"category"`
		Date      *string  `json:"date"`
		Desc      *string  `json:"desc"`
	}
)

var (
	ErrNameRequired    = errors.New("account name required")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrAccountRequired = errors.New("account selection required")
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

func (d AccountDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

func (d TransactionDraft) Validate() error {
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(d.AccountID) == "" {
		return ErrAccountRequired
	}
	return nil
}

func (p TransactionPatch) Validate() error {
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.AccountID != nil && strings.TrimSpace(*p.AccountID) == "" {
		return ErrAccountRequired
	}
	return nil
}

// NewAccount materializes a draft into an Account. The balance is left for
// the next recomputation pass to derive.
func NewAccount(d AccountDraft) Account {
	initial := d.Balance
	if d.Initial != nil {
		initial = *d.Initial
	}
	return Account{
		ID:      NewID(),
		Name:    d.Name,
		Initial: initial,
	}
}

// NewTransaction materializes a draft, filling the defaults the model
// guarantees: a generated id, the "General" category, today's date when the
// draft carries no parseable date, and a normalized type.
func NewTransaction(d TransactionDraft, now time.Time) Transaction {
	category := d.Category
	if category == "" {
		category = DefaultCategory
	}
	date := d.Date
	if _, err := time.Parse(DateLayout, date); err != nil {
		date = now.Format(DateLayout)
	}
	return Transaction{
		ID:        NewID(),
		AccountID: d.AccountID,
		Amount:    d.Amount,
		Type:      NormalizeType(string(d.Type)),
		Category:  category,
		Date:      date,
		Desc:      d.Desc,
	}
}

// NormalizeType maps whatever type value was stored onto the current
// vocabulary. "income" is the legacy spelling of ingreso; any other unknown
// value degrades to gasto.
func NormalizeType(raw string) TxType {
	switch raw {
	case string(Ingreso), string(Gasto):
		return TxType(raw)
	case "income":
		return Ingreso
	default:
		return Gasto
	}
}
