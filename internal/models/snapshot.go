package models

import "time"

// Snapshot is the full-backup document produced by export and consumed by
// import. Importing replaces each present collection wholesale.
type Snapshot struct {
	ExportedAt   time.Time      `json:"exported_at"`
	Accounts     []Account      `json:"accounts"`
	Transactions []Transaction  `json:"transactions"`
	Categories   []Category     `json:"categories"`
	ShoppingList []ShoppingItem `json:"shopping_list"`
	Budgets      []Budget       `json:"budgets"`
	Settings     *Settings      `json:"settings,omitempty"`
}
