// Package budget manages spending caps and computes their progress against
// posted transactions.
package budget

import (
	"context"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// Compile-time interface check
var _ interfaces.BudgetService = (*Service)(nil)

// Service implements BudgetService
type Service struct {
	budgets      *repos.BudgetRepo
	categories   *repos.CategoryRepo
	transactions *repos.TransactionRepo
	logger       *common.Logger
	now          func() time.Time
}

// NewService creates a new budget service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		budgets:      repos.NewBudgetRepo(storage.UserDataStore()),
		categories:   repos.NewCategoryRepo(storage.UserDataStore()),
		transactions: repos.NewTransactionRepo(storage.UserDataStore()),
		logger:       logger,
		now:          time.Now,
	}
}

// Evaluate computes a budget's progress from the expense transactions in its
// category and window. Pure; nothing is read or written.
func Evaluate(b *models.Budget, txns []models.Transaction, now time.Time) models.BudgetProgress {
	var spent models.Money
	for i := range txns {
		t := &txns[i]
		if t.Type != models.TxExpense || t.CategoryID != b.CategoryID {
			continue
		}
		if t.Date.Before(b.StartDate) || t.Date.After(b.EndDate) {
			continue
		}
		spent += t.Amount
	}

	var percentage float64
	if b.Amount > 0 {
		percentage = float64(spent) / float64(b.Amount) * 100
	} else if spent > 0 {
		percentage = 100
	}

	remaining := b.Amount - spent
	if remaining < 0 {
		remaining = 0
	}

	progress := models.BudgetProgress{
		Spent:        spent,
		Remaining:    remaining,
		Percentage:   percentage,
		IsOverBudget: spent > b.Amount,
		Status:       b.Status(now),
	}
	if progress.Percentage > 100 {
		progress.Percentage = 100
	}
	if progress.Percentage < 0 {
		progress.Percentage = 0
	}
	return progress
}

func validateBudget(b models.Budget) error {
	if strings.TrimSpace(b.Name) == "" {
		return models.NewValidationError("budget name is required")
	}
	if b.Amount <= 0 {
		return models.NewValidationError("budget amount must be positive")
	}
	if b.CategoryID == "" {
		return models.NewValidationError("category is required")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return models.NewValidationError("start and end dates are required")
	}
	if b.EndDate.Before(b.StartDate) {
		return models.NewValidationError("end date cannot be before start date")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, b models.Budget) (*models.Budget, error) {
	userID := common.ResolveUserID(ctx)

	b.Name = strings.TrimSpace(b.Name)
	if err := validateBudget(b); err != nil {
		return nil, err
	}
	if _, err := s.categories.Get(ctx, userID, b.CategoryID); err != nil {
		return nil, err
	}

	b.ID = repos.NewID("bgt")
	b.CreatedAt = s.now()

	if err := s.budgets.Save(ctx, userID, &b); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user", userID).
		Str("budget", b.ID).
		Str("amount", b.Amount.String()).
		Msg("Budget created")
	return &b, nil
}

func (s *Service) Update(ctx context.Context, b models.Budget) (*models.Budget, error) {
	userID := common.ResolveUserID(ctx)

	existing, err := s.budgets.Get(ctx, userID, b.ID)
	if err != nil {
		return nil, err
	}

	b.Name = strings.TrimSpace(b.Name)
	if err := validateBudget(b); err != nil {
		return nil, err
	}
	if _, err := s.categories.Get(ctx, userID, b.CategoryID); err != nil {
		return nil, err
	}

	b.CreatedAt = existing.CreatedAt
	if err := s.budgets.Save(ctx, userID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)
	if _, err := s.budgets.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.budgets.Delete(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Budget, error) {
	userID := common.ResolveUserID(ctx)
	return s.budgets.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context) ([]models.Budget, error) {
	userID := common.ResolveUserID(ctx)
	budgets, err := s.budgets.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, *b)
	}
	return out, nil
}

// Progress evaluates a budget against the stored transaction history.
func (s *Service) Progress(ctx context.Context, id string) (*models.BudgetProgress, error) {
	userID := common.ResolveUserID(ctx)

	b, err := s.budgets.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	txns, err := s.transactions.List(ctx, userID, interfaces.TransactionFilter{
		Type:       models.TxExpense,
		CategoryID: b.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	flat := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		flat = append(flat, *t)
	}

	progress := Evaluate(b, flat, s.now())
	return &progress, nil
}
