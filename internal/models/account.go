package models

import "time"

// Account is a user's money account. Balance is a materialized aggregate
// maintained incrementally by the ledger service; it is never recomputed
// from transaction history on read.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   Money     `json:"balance"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultAccounts returns the account set seeded for a new user.
func DefaultAccounts() []Account {
	now := time.Now()
	return []Account{
		{ID: "acc_cash", Name: "Cash", Balance: 0, Icon: "payments", CreatedAt: now, UpdatedAt: now},
		{ID: "acc_bank", Name: "Bank Account", Balance: 0, Icon: "account_balance", CreatedAt: now, UpdatedAt: now},
	}
}
