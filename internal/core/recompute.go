package core

import "github.com/shopspring/decimal"

// RecomputeAccounts derives every account balance from scratch: each account
// is seeded with its initial value (any balance already on the input is
// ignored), then every transaction in input order adds or subtracts its
// amount depending on type. Transactions whose accountId matches no account
// are skipped. Each final balance is rounded to 2 decimals once, after the
// whole sum, never per transaction.
//
// The function is pure: it never fails, never touches its inputs, and the
// output order is the order account ids were first seen.
func RecomputeAccounts(accounts []Account, transactions []Transaction) []Account {
	order := make([]string, 0, len(accounts))
	byID := make(map[string]Account, len(accounts))
	sums := make(map[string]decimal.Decimal, len(accounts))

	for _, a := range accounts {
		if _, seen := byID[a.ID]; !seen {
			order = append(order, a.ID)
		}
		byID[a.ID] = a
		sums[a.ID] = decimal.NewFromFloat(a.Initial)
	}

	for _, t := range transactions {
		sum, ok := sums[t.AccountID]
		if !ok {
			// Orphan: retained in storage, inert for balances.
			continue
		}
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == Ingreso {
			sums[t.AccountID] = sum.Add(amount)
		} else {
			sums[t.AccountID] = sum.Sub(amount)
		}
	}

	out := make([]Account, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.Balance = sums[id].Round(2).InexactFloat64()
		out = append(out, a)
	}
	return out
}

// ComputeBalance sums the derived balances of all accounts, rounded to 2
// decimals.
func ComputeBalance(accounts []Account) float64 {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(decimal.NewFromFloat(a.Balance))
	}
	return sum.Round(2).InexactFloat64()
}
