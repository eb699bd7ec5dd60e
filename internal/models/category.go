package models

// Category tags transactions and budgets. Type should match the type of the
// transactions that reference it (soft constraint, not enforced).
type Category struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          TransactionType `json:"type"`
	Icon          string          `json:"icon,omitempty"`
	CustomIconURL string          `json:"custom_icon_url,omitempty"`
}

// DefaultCategories returns the category set seeded for a new user:
// four expense categories and two income categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat_food", Name: "Food", Type: TxExpense, Icon: "restaurant"},
		{ID: "cat_transport", Name: "Transport", Type: TxExpense, Icon: "directions_car"},
		{ID: "cat_shopping", Name: "Shopping", Type: TxExpense, Icon: "shopping_bag"},
		{ID: "cat_bills", Name: "Bills", Type: TxExpense, Icon: "receipt"},
		{ID: "cat_salary", Name: "Salary", Type: TxIncome, Icon: "work"},
		{ID: "cat_gifts", Name: "Gifts", Type: TxIncome, Icon: "card_giftcard"},
	}
}
