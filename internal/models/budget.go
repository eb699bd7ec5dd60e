package models

import "time"

// BudgetStatus reflects where "now" falls relative to the budget window.
type BudgetStatus string

const (
	BudgetUpcoming BudgetStatus = "upcoming"
	BudgetActive   BudgetStatus = "active"
	BudgetExpired  BudgetStatus = "expired"
)

// Budget is a spending cap for one expense category over a date window.
type Budget struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Amount     Money     `json:"amount"`
	CategoryID string    `json:"category_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Status derives the budget's lifecycle state at the given instant.
func (b *Budget) Status(now time.Time) BudgetStatus {
	if now.Before(b.StartDate) {
		return BudgetUpcoming
	}
	if now.After(b.EndDate) {
		return BudgetExpired
	}
	return BudgetActive
}

// BudgetProgress is the derived state of a budget over its window.
// Percentage is clamped to [0,100] for display; IsOverBudget uses the
// unclamped ratio.
type BudgetProgress struct {
	Spent        Money        `json:"spent"`
	Remaining    Money        `json:"remaining"`
	Percentage   float64      `json:"percentage"`
	IsOverBudget bool         `json:"is_over_budget"`
	Status       BudgetStatus `json:"status"`
}
