// Package report aggregates posted transactions for display. Reports are
// pure groupings over the transaction history; they never touch balances.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// Service implements ReportService
type Service struct {
	storage      interfaces.StorageManager
	accounts     *repos.AccountRepo
	transactions *repos.TransactionRepo
	categories   *repos.CategoryRepo
	logger       *common.Logger
	currency     string
}

// NewService creates a new report service. currency is the display currency
// fallback when the user context carries none.
func NewService(storage interfaces.StorageManager, logger *common.Logger, currency string) *Service {
	return &Service{
		storage:      storage,
		accounts:     repos.NewAccountRepo(storage.UserDataStore()),
		transactions: repos.NewTransactionRepo(storage.UserDataStore()),
		categories:   repos.NewCategoryRepo(storage.UserDataStore()),
		logger:       logger,
		currency:     currency,
	}
}

// reportable returns the filter with the report-inclusion flag applied.
// Transactions marked as excluded stay out of every report unless the caller
// asks for them explicitly.
func reportable(filter interfaces.TransactionFilter) interfaces.TransactionFilter {
	if filter.IncludeInReports == nil {
		included := true
		filter.IncludeInReports = &included
	}
	return filter
}

func (s *Service) load(ctx context.Context, filter interfaces.TransactionFilter) ([]*models.Transaction, error) {
	userID := common.ResolveUserID(ctx)
	return s.transactions.List(ctx, userID, reportable(filter))
}

// Summary totals income and expense over the filtered set. TotalBalance is
// the sum of all account balances and ignores the filter.
func (s *Service) Summary(ctx context.Context, filter interfaces.TransactionFilter) (*interfaces.ReportSummary, error) {
	userID := common.ResolveUserID(ctx)

	txns, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.ReportSummary{
		Currency: common.ResolveCurrency(ctx, s.currency),
		Count:    len(txns),
	}
	for _, t := range txns {
		if t.Type == models.TxIncome {
			summary.TotalIncome += t.Amount
		} else {
			summary.TotalExpense += t.Amount
		}
	}

	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		summary.TotalBalance += a.Balance
	}
	return summary, nil
}

// ByCategory groups the filtered set by category and totals the amounts.
// Rows are sorted by total, largest first. Transactions without a category
// are kept under an "Uncategorized" row, so the rows always account for
// every filtered transaction.
func (s *Service) ByCategory(ctx context.Context, filter interfaces.TransactionFilter) ([]interfaces.CategoryTotal, error) {
	userID := common.ResolveUserID(ctx)

	txns, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]models.Money)
	for _, t := range txns {
		totals[t.CategoryID] += t.Amount
	}

	names := make(map[string]string)
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([]interfaces.CategoryTotal, 0, len(totals))
	for id, total := range totals {
		name := names[id]
		if name == "" {
			name = "Uncategorized"
		}
		rows = append(rows, interfaces.CategoryTotal{CategoryID: id, Name: name, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// ByAccount groups the filtered set by account and nets the signed amounts.
func (s *Service) ByAccount(ctx context.Context, filter interfaces.TransactionFilter) ([]interfaces.AccountNet, error) {
	userID := common.ResolveUserID(ctx)

	txns, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]models.Money)
	for _, t := range txns {
		nets[t.AccountID] += t.SignedAmount()
	}

	names := make(map[string]string)
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	rows := make([]interfaces.AccountNet, 0, len(nets))
	for id, net := range nets {
		name := names[id]
		if name == "" {
			name = id
		}
		rows = append(rows, interfaces.AccountNet{AccountID: id, Name: name, Net: net})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// bucketKey formats a transaction date into its time bucket.
func bucketKey(date time.Time, bucketing string) string {
	switch bucketing {
	case "day":
		return date.Format("2006-01-02")
	case "week":
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default: // month
		return date.Format("2006-01")
	}
}

// ByTimeBucket groups the filtered set into day, week, or month buckets.
// Rows are sorted chronologically; bucket keys sort lexically.
func (s *Service) ByTimeBucket(ctx context.Context, filter interfaces.TransactionFilter, bucketing string) ([]interfaces.TimeBucket, error) {
	switch bucketing {
	case "day", "week", "month":
	case "":
		bucketing = "month"
	default:
		return nil, models.NewValidationError("invalid bucketing %q; must be day, week, or month", bucketing)
	}

	txns, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*interfaces.TimeBucket)
	for _, t := range txns {
		key := bucketKey(t.Date, bucketing)
		b, ok := buckets[key]
		if !ok {
			b = &interfaces.TimeBucket{Key: key}
			buckets[key] = b
		}
		if t.Type == models.TxIncome {
			b.Income += t.Amount
		} else {
			b.Expense += t.Amount
		}
		b.Net += t.SignedAmount()
	}

	rows := make([]interfaces.TimeBucket, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows, nil
}
