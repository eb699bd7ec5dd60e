package models

import "time"

// TransactionType determines the sign of a transaction's effect on its
// account balance. Amount itself is always positive.
type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

// ValidTransactionType returns true if t is a recognized transaction type.
func ValidTransactionType(t TransactionType) bool {
	return t == TxIncome || t == TxExpense
}

// Transaction is a single posted income or expense event.
type Transaction struct {
	ID               string          `json:"id"`
	Type             TransactionType `json:"type"`
	Description      string          `json:"description"`
	Amount           Money           `json:"amount"`
	Date             time.Time       `json:"date"`
	AccountID        string          `json:"account_id"`
	CategoryID       string          `json:"category_id,omitempty"`
	IncludeInReports bool            `json:"include_in_reports"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SignedAmount returns the transaction's effect on its account balance:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() Money {
	if t.Type == TxExpense {
		return -t.Amount
	}
	return t.Amount
}

// NewTransaction carries the caller-supplied fields of a transaction to be
// posted. The ledger service assigns the ID and timestamps.
type NewTransaction struct {
	Type             TransactionType `json:"type"`
	Description      string          `json:"description"`
	Amount           Money           `json:"amount"`
	Date             time.Time       `json:"date"`
	AccountID        string          `json:"account_id"`
	CategoryID       string          `json:"category_id,omitempty"`
	IncludeInReports bool            `json:"include_in_reports"`
	Notes            string          `json:"notes,omitempty"`
}
