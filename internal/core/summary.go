package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// CategoryAmount is an expense total grouped under one category name.
	CategoryAmount struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// Summary is the dashboard view of the aggregate.
	Summary struct {
		TotalBalance float64          `json:"totalBalance"`
		AccountCount int              `json:"accountCount"`
		ByCategory   []CategoryAmount `json:"byCategory"`
		Recent       []Transaction    `json:"recent"`
	}

	// Filter narrows a transaction listing. Zero values mean "no
	// restriction"; Days limits to the last N calendar days.
	Filter struct {
		Type      TxType
		AccountID string
		Days      int
		Category  string
	}

	// Totals are income/expense/net sums over a transaction set.
	Totals struct {
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
	}
)

// Summarize builds the dashboard summary: total balance across accounts,
// expense totals per category (income does not appear in the breakdown),
// and the most recent transactions up to the given limit.
func Summarize(s State, recent int) Summary {
	order := make([]string, 0)
	sums := make(map[string]decimal.Decimal)
	for _, t := range s.Transactions {
		if t.Type != Gasto {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
			sums[t.Category] = decimal.Zero
		}
		sums[t.Category] = sums[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}

	byCategory := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		byCategory = append(byCategory, CategoryAmount{
			Name:   name,
			Amount: sums[name].Round(2).InexactFloat64(),
		})
	}

	if recent > len(s.Transactions) {
		recent = len(s.Transactions)
	}
	head := append([]Transaction(nil), s.Transactions[:recent]...)

	return Summary{
		TotalBalance: ComputeBalance(s.Accounts),
		AccountCount: len(s.Accounts),
		ByCategory:   byCategory,
		Recent:       head,
	}
}

// FilterTransactions returns the transactions matching every set field of
// the filter, in input order. When a period is set, transactions with
// unparseable dates are excluded; without one, dates are not inspected.
func FilterTransactions(transactions []Transaction, f Filter, now time.Time) []Transaction {
	var cutoff time.Time
	if f.Days > 0 {
		y, m, d := now.Date()
		cutoff = time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(f.Days - 1))
	}
	query := strings.ToLower(f.Category)

	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.AccountID != "" && t.AccountID != f.AccountID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Category), query) {
			continue
		}
		if f.Days > 0 {
			td, err := time.ParseInLocation(DateLayout, t.Date, now.Location())
			if err != nil || td.Before(cutoff) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SumTotals computes income, expense and net over a transaction set, each
// rounded to 2 decimals.
func SumTotals(transactions []Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == Ingreso {
			income = income.Add(amount)
		} else {
			expense = expense.Add(amount)
		}
	}
	return Totals{
		Income:  income.Round(2).InexactFloat64(),
		Expense: expense.Round(2).InexactFloat64(),
		Net:     income.Sub(expense).Round(2).InexactFloat64(),
	}
}
