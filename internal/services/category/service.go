// Package category manages the user's category collection.
package category

import (
	"context"
	"strings"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// Compile-time interface check
var _ interfaces.CategoryService = (*Service)(nil)

// Service implements CategoryService
type Service struct {
	categories   *repos.CategoryRepo
	transactions *repos.TransactionRepo
	budgets      *repos.BudgetRepo
	logger       *common.Logger
}

// NewService creates a new category service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		categories:   repos.NewCategoryRepo(storage.UserDataStore()),
		transactions: repos.NewTransactionRepo(storage.UserDataStore()),
		budgets:      repos.NewBudgetRepo(storage.UserDataStore()),
		logger:       logger,
	}
}

func validateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return models.NewValidationError("category name is required")
	}
	if len(c.Name) > 100 {
		return models.NewValidationError("category name exceeds 100 characters")
	}
	if !models.ValidTransactionType(c.Type) {
		return models.NewValidationError("invalid category type %q; must be income or expense", c.Type)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, c models.Category) (*models.Category, error) {
	userID := common.ResolveUserID(ctx)

	c.Name = strings.TrimSpace(c.Name)
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	c.ID = repos.NewID("cat")

	if err := s.categories.Save(ctx, userID, &c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user", userID).Str("category", c.ID).Msg("Category created")
	return &c, nil
}

func (s *Service) Update(ctx context.Context, c models.Category) (*models.Category, error) {
	userID := common.ResolveUserID(ctx)

	existing, err := s.categories.Get(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(c.Name)
	if err := validateCategory(c); err != nil {
		return nil, err
	}

	// Type changes would silently re-sign historical report rows.
	if c.Type != existing.Type {
		count, err := s.transactions.CountByCategory(ctx, userID, c.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, models.NewConflictError(
				"category %s has %d transactions; its type cannot change", c.ID, count)
		}
	}

	if err := s.categories.Save(ctx, userID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a category. Categories still referenced by transactions or
// budgets cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)

	if _, err := s.categories.Get(ctx, userID, id); err != nil {
		return err
	}

	count, err := s.transactions.CountByCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError("category %s has %d transactions; delete them first", id, count)
	}

	budgets, err := s.budgets.List(ctx, userID)
	if err != nil {
		return err
	}
	for _, b := range budgets {
		if b.CategoryID == id {
			return models.NewConflictError("category %s is used by budget %s; delete it first", id, b.ID)
		}
	}

	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("user", userID).Str("category", id).Msg("Category deleted")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Category, error) {
	userID := common.ResolveUserID(ctx)
	return s.categories.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	userID := common.ResolveUserID(ctx)
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, *c)
	}
	return out, nil
}
