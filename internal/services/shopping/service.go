// Package shopping manages the planned-purchase list and its conversion
// into posted expenses.
package shopping

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// Compile-time interface check
var _ interfaces.ShoppingService = (*Service)(nil)

// Service implements ShoppingService
type Service struct {
	items  *repos.ShoppingRepo
	ledger interfaces.LedgerService
	logger *common.Logger
}

// NewService creates a new shopping service. Conversions post through the
// ledger service; shopping never edits balances itself.
func NewService(storage interfaces.StorageManager, ledger interfaces.LedgerService, logger *common.Logger) *Service {
	return &Service{
		items:  repos.NewShoppingRepo(storage.UserDataStore()),
		ledger: ledger,
		logger: logger,
	}
}

func validateItem(item models.ShoppingItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return models.NewValidationError("item name is required")
	}
	if len(item.Name) > 200 {
		return models.NewValidationError("item name exceeds 200 characters")
	}
	if item.Amount <= 0 {
		return models.NewValidationError("amount must be positive")
	}
	if item.Priority != "" && !models.ValidPriority(item.Priority) {
		return models.NewValidationError("invalid priority %q; must be low, medium, or high", item.Priority)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	userID := common.ResolveUserID(ctx)

	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	item.ID = repos.NewID("shp")
	item.CreatedAt = time.Now()

	if err := s.items.Save(ctx, userID, &item); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user", userID).Str("item", item.ID).Msg("Shopping item created")
	return &item, nil
}

func (s *Service) Update(ctx context.Context, item models.ShoppingItem) (*models.ShoppingItem, error) {
	userID := common.ResolveUserID(ctx)

	existing, err := s.items.Get(ctx, userID, item.ID)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(item.Name)
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if item.Priority == "" {
		item.Priority = existing.Priority
	}
	item.CreatedAt = existing.CreatedAt

	if err := s.items.Save(ctx, userID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)
	if _, err := s.items.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, id string) (*models.ShoppingItem, error) {
	userID := common.ResolveUserID(ctx)
	return s.items.Get(ctx, userID, id)
}

// List returns all items sorted by sortBy: "priority" (default, high first,
// then planned date), "date" (planned date, undated last), or "amount"
// (largest first).
func (s *Service) List(ctx context.Context, sortBy string) ([]models.ShoppingItem, error) {
	userID := common.ResolveUserID(ctx)

	items, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ShoppingItem, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}

	switch sortBy {
	case "date":
		sort.Slice(out, func(i, j int) bool {
			return dateLess(out[i].Date, out[j].Date)
		})
	case "amount":
		sort.Slice(out, func(i, j int) bool {
			return out[i].Amount > out[j].Amount
		})
	case "", "priority":
		sort.Slice(out, func(i, j int) bool {
			ri, rj := models.PriorityRank(out[i].Priority), models.PriorityRank(out[j].Priority)
			if ri != rj {
				return ri < rj
			}
			return dateLess(out[i].Date, out[j].Date)
		})
	default:
		return nil, models.NewValidationError("invalid sort %q; must be priority, date, or amount", sortBy)
	}
	return out, nil
}

// dateLess orders planned dates ascending with undated items last.
func dateLess(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

// Convert posts the item as an expense through the ledger and removes it.
// The posting carries the item's account, category, and notes; a failed
// posting leaves the item in place.
func (s *Service) Convert(ctx context.Context, id string) (*models.Transaction, error) {
	userID := common.ResolveUserID(ctx)

	item, err := s.items.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.AccountID == "" {
		return nil, models.NewValidationError("item %s has no account to charge", id)
	}

	date := time.Now()
	if item.Date != nil {
		date = *item.Date
	}

	txn, err := s.ledger.PostTransaction(ctx, models.NewTransaction{
		Type:             models.TxExpense,
		Description:      item.Name,
		Amount:           item.Amount,
		Date:             date,
		AccountID:        item.AccountID,
		CategoryID:       item.CategoryID,
		IncludeInReports: true,
		Notes:            item.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, userID, id); err != nil {
		// The expense is already posted; a stale item is the lesser harm.
		s.logger.Error().Err(err).
			Str("user", userID).
			Str("item", id).
			Str("transaction", txn.ID).
			Msg("Converted item could not be removed")
		return txn, nil
	}

	s.logger.Info().
		Str("user", userID).
		Str("item", id).
		Str("transaction", txn.ID).
		Msg("Shopping item converted")
	return txn, nil
}
