package models

import "time"

// Priority orders shopping items by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority returns true if p is a recognized priority.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// PriorityRank returns a sort rank for p, high first.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ShoppingItem is a planned purchase. Converting an item posts an expense
// transaction through the ledger service and removes the item.
type ShoppingItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Amount     Money      `json:"amount"`
	Date       *time.Time `json:"date,omitempty"`
	AccountID  string     `json:"account_id,omitempty"`
	CategoryID string     `json:"category_id,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Priority   Priority   `json:"priority"`
	CreatedAt  time.Time  `json:"created_at"`
}
