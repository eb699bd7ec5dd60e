package interfaces

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/models"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type             models.TransactionType
	CategoryID       string
	AccountID        string
	From             *time.Time
	To               *time.Time
	IncludeInReports *bool
	Limit            int
}

// LedgerService is the exclusive authority for any operation that changes an
// account balance as a side effect of a transaction lifecycle event. Account
// create/update are direct owner-intent balance edits and also live here so
// no other component touches balances.
type LedgerService interface {
	// Accounts
	CreateAccount(ctx context.Context, name string, balance models.Money, icon string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id, name string, balance models.Money, icon string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// Transactions
	PostTransaction(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx models.NewTransaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Transfer moves amount between two accounts. No transaction record is
	// created; transfers are invisible to reports.
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount models.Money) error

	// RecalculateBalances rebuilds every account balance from the full
	// transaction history and persists the result. Returns the corrected
	// balance per account ID.
	RecalculateBalances(ctx context.Context) (map[string]models.Money, error)
}

// CategoryService manages the category collection.
type CategoryService interface {
	Create(ctx context.Context, c models.Category) (*models.Category, error)
	Update(ctx context.Context, c models.Category) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// BudgetService manages budgets and computes their derived progress.
type BudgetService interface {
	Create(ctx context.Context, b models.Budget) (*models.Budget, error)
	Update(ctx context.Context, b models.Budget) (*models.Budget, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	List(ctx context.Context) ([]models.Budget, error)
	Progress(ctx context.Context, id string) (*models.BudgetProgress, error)
}

// ShoppingService manages the planned-purchase list.
type ShoppingService interface {
	Create(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error)
	Update(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.ShoppingItem, error)
	List(ctx context.Context, sortBy string) ([]models.ShoppingItem, error)
	// Convert posts an expense through the ledger service and, on success,
	// removes the item. A failed posting leaves the item untouched.
	Convert(ctx context.Context, id string) (*models.Transaction, error)
}

// CategoryTotal is one row of a by-category report.
type CategoryTotal struct {
	CategoryID string       `json:"category_id"`
	Name       string       `json:"name"`
	Total      models.Money `json:"total"`
}

// AccountNet is one row of a by-account report.
type AccountNet struct {
	AccountID string       `json:"account_id"`
	Name      string       `json:"name"`
	Net       models.Money `json:"net"`
}

// TimeBucket is one row of a by-time report.
type TimeBucket struct {
	Key     string       `json:"key"`
	Income  models.Money `json:"income"`
	Expense models.Money `json:"expense"`
	Net     models.Money `json:"net"`
}

// ReportSummary aggregates totals over a filtered transaction set.
type ReportSummary struct {
	TotalBalance models.Money `json:"total_balance"`
	TotalIncome  models.Money `json:"total_income"`
	TotalExpense models.Money `json:"total_expense"`
	Currency     string       `json:"currency"`
	Count        int          `json:"count"`
}

// ReportService aggregates transactions for display. Pure grouping; no
// balance semantics.
type ReportService interface {
	Summary(ctx context.Context, filter TransactionFilter) (*ReportSummary, error)
	ByCategory(ctx context.Context, filter TransactionFilter) ([]CategoryTotal, error)
	ByAccount(ctx context.Context, filter TransactionFilter) ([]AccountNet, error)
	ByTimeBucket(ctx context.Context, filter TransactionFilter, bucketing string) ([]TimeBucket, error)
	// RenderCategoryChart renders a by-category bar chart PNG and persists it
	// through the storage manager. Returns the PNG bytes.
	RenderCategoryChart(ctx context.Context, filter TransactionFilter) ([]byte, error)
}

// BackupService exports and imports full user snapshots.
type BackupService interface {
	Export(ctx context.Context) (*models.Snapshot, error)
	// Import replaces each collection present in the snapshot. When
	// recalculate is true, account balances are rebuilt from the imported
	// transaction history instead of trusting the snapshot's balances.
	Import(ctx context.Context, snap *models.Snapshot, recalculate bool) error
}

// AdvisorClient answers free-form finance questions grounded in the user's
// own aggregates. Optional; nil when no API key is configured.
type AdvisorClient interface {
	Advise(ctx context.Context, prompt string) (string, error)
	Close() error
}
