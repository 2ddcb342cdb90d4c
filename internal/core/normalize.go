package core

import (
	"strconv"
	"time"
)

// NormalizeState repairs whatever shape was last persisted into a well-formed
// aggregate. raw is the persisted document decoded as generic JSON (any
// shape, any vintage): missing ids are generated, missing names and
// categories get their defaults, amounts and balances are coerced to
// numbers, the legacy "income" type is migrated, and accounts persisted
// before the initial field existed get their live balance as the new seed.
//
// The result always passes through RecomputeAccounts, so every balance the
// rest of the system observes satisfies the derivation invariant. Because
// balances are recomputed from initial rather than read back, normalizing an
// already-normalized document yields the same value.
//
// now supplies the default date for transactions stored without one.
func NormalizeState(raw any, now time.Time) State {
	root := asMap(raw)

	rawAccounts := asSlice(root["accounts"])
	accounts := make([]Account, 0, len(rawAccounts))
	for _, v := range rawAccounts {
		m := asMap(v)
		a := Account{
			ID:   asString(m["id"]),
			Name: asString(m["name"]),
		}
		if a.ID == "" {
			a.ID = NewID()
		}
		if a.Name == "" {
			a.Name = DefaultAccountName
		}
		balance, _ := asNumber(m["balance"])
		if initial, ok := asNumber(m["initial"]); ok {
			a.Initial = initial
		} else {
			// One-time migration: legacy records stored only a live
			// balance, which becomes the seed.
			a.Initial = balance
		}
		a.Balance = balance
		accounts = append(accounts, a)
	}

	rawTransactions := asSlice(root["transactions"])
	transactions := make([]Transaction, 0, len(rawTransactions))
	for _, v := range rawTransactions {
		m := asMap(v)
		t := Transaction{
			ID:        asString(m["id"]),
			AccountID: asString(m["accountId"]),
			Type:      NormalizeType(asString(m["type"])),
			Category:  asString(m["category"]),
			Date:      asString(m["date"]),
			Desc:      asString(m["desc"]),
		}
		if t.ID == "" {
			t.ID = NewID()
		}
		t.Amount, _ = asNumber(m["amount"])
		if t.Category == "" {
			t.Category = DefaultCategory
		}
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			t.Date = now.Format(DateLayout)
		}
		transactions = append(transactions, t)
	}

	return NewState(accounts, transactions)
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asString renders scalar values the way the persisted document would have
// shown them; composite values and null come back empty.
func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// asNumber coerces JSON numbers and numeric strings. ok reports whether the
// value carried a usable number; callers fall back to 0 or to a migration
// rule when it did not.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}
