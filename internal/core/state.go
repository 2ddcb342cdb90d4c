package core

// NewState is the single constructor for the aggregate: balances are always
// freshly derived here, so no mutation path can forget the recomputation
// pass or hand-patch a balance.
func NewState(accounts []Account, transactions []Transaction) State {
	return State{
		Accounts:     RecomputeAccounts(accounts, transactions),
		Transactions: transactions,
	}
}

// AddAccount appends the new account; existing accounts keep their initial
// seeds untouched.
func (s State) AddAccount(a Account) State {
	accounts := make([]Account, 0, len(s.Accounts)+1)
	accounts = append(accounts, s.Accounts...)
	accounts = append(accounts, a)
	return NewState(accounts, s.Transactions)
}

// AddTransaction prepends the transaction; the list is kept most-recent-first
// for display.
func (s State) AddTransaction(t Transaction) State {
	transactions := make([]Transaction, 0, len(s.Transactions)+1)
	transactions = append(transactions, t)
	transactions = append(transactions, s.Transactions...)
	return NewState(s.Accounts, transactions)
}

// EditTransaction merges the patch over the record with the matching id.
// Unknown ids are a silent no-op; the recomputation pass still runs but
// changes nothing.
func (s State) EditTransaction(p TransactionPatch) State {
	transactions := append([]Transaction(nil), s.Transactions...)
	for i, t := range transactions {
		if t.ID != p.ID {
			continue
		}
		if p.AccountID != nil {
			t.AccountID = *p.AccountID
		}
		if p.Amount != nil {
			t.Amount = *p.Amount
		}
		if p.Type != nil {
			t.Type = NormalizeType(string(*p.Type))
		}
		if p.Category != nil {
			t.Category = *p.Category
		}
		if p.Date != nil {
			t.Date = *p.Date
		}
		if p.Desc != nil {
			t.Desc = *p.Desc
		}
		transactions[i] = t
		break
	}
	return NewState(s.Accounts, transactions)
}

// DeleteTransaction removes the transaction with the given id, no-op when
// absent.
func (s State) DeleteTransaction(id string) State {
	transactions := make([]Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if t.ID == id {
			continue
		}
		transactions = append(transactions, t)
	}
	return NewState(s.Accounts, transactions)
}
