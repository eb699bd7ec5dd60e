// Package backup exports and imports full user data snapshots.
package backup

import (
	"context"
	"time"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
)

// Compile-time interface check
var _ interfaces.BackupService = (*Service)(nil)

// Service implements BackupService
type Service struct {
	storage      interfaces.StorageManager
	accounts     *repos.AccountRepo
	transactions *repos.TransactionRepo
	categories   *repos.CategoryRepo
	budgets      *repos.BudgetRepo
	shopping     *repos.ShoppingRepo
	settings     *repos.SettingsRepo
	ledger       interfaces.LedgerService
	logger       *common.Logger
}

// NewService creates a new backup service
func NewService(storage interfaces.StorageManager, ledger interfaces.LedgerService, logger *common.Logger) *Service {
	store := storage.UserDataStore()
	return &Service{
		storage:      storage,
		accounts:     repos.NewAccountRepo(store),
		transactions: repos.NewTransactionRepo(store),
		categories:   repos.NewCategoryRepo(store),
		budgets:      repos.NewBudgetRepo(store),
		shopping:     repos.NewShoppingRepo(store),
		settings:     repos.NewSettingsRepo(store),
		ledger:       ledger,
		logger:       logger,
	}
}

// Export collects every user collection into a snapshot.
func (s *Service) Export(ctx context.Context) (*models.Snapshot, error) {
	userID := common.ResolveUserID(ctx)

	snap := &models.Snapshot{ExportedAt: time.Now()}

	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		snap.Accounts = append(snap.Accounts, *a)
	}

	txns, err := s.transactions.List(ctx, userID, interfaces.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	for _, t := range txns {
		snap.Transactions = append(snap.Transactions, *t)
	}

	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		snap.Categories = append(snap.Categories, *c)
	}

	budgets, err := s.budgets.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		snap.Budgets = append(snap.Budgets, *b)
	}

	items, err := s.shopping.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		snap.ShoppingList = append(snap.ShoppingList, *item)
	}

	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap.Settings = settings

	s.logger.Info().
		Str("user", userID).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("Snapshot exported")
	return snap, nil
}

// validateSnapshot rejects snapshots whose transactions reference accounts
// missing from the snapshot itself.
func validateSnapshot(snap *models.Snapshot) error {
	accountIDs := make(map[string]bool, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if a.ID == "" {
			return models.NewValidationError("snapshot account without ID")
		}
		accountIDs[a.ID] = true
	}
	for _, t := range snap.Transactions {
		if t.ID == "" {
			return models.NewValidationError("snapshot transaction without ID")
		}
		if !models.ValidTransactionType(t.Type) {
			return models.NewValidationError("snapshot transaction %s has invalid type %q", t.ID, t.Type)
		}
		if t.Amount <= 0 {
			return models.NewValidationError("snapshot transaction %s has non-positive amount", t.ID)
		}
		if !accountIDs[t.AccountID] {
			return models.NewValidationError("snapshot transaction %s references unknown account %q", t.ID, t.AccountID)
		}
	}
	return nil
}

// Import validates the snapshot, then replaces each collection it carries.
// A nil collection leaves the existing one in place; an empty one clears it.
// With recalculate set, account balances are rebuilt from the imported
// transactions instead of trusting the snapshot.
func (s *Service) Import(ctx context.Context, snap *models.Snapshot, recalculate bool) error {
	userID := common.ResolveUserID(ctx)

	if snap == nil {
		return models.NewValidationError("snapshot is required")
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	store := s.storage.UserDataStore()

	if snap.Accounts != nil {
		if _, err := store.DeleteBySubject(ctx, userID, repos.SubjectAccount); err != nil {
			return err
		}
		for i := range snap.Accounts {
			if err := s.accounts.Save(ctx, userID, &snap.Accounts[i]); err != nil {
				return err
			}
		}
	}
	if snap.Transactions != nil {
		if _, err := store.DeleteBySubject(ctx, userID, repos.SubjectTransaction); err != nil {
			return err
		}
		for i := range snap.Transactions {
			if err := s.transactions.Save(ctx, userID, &snap.Transactions[i]); err != nil {
				return err
			}
		}
	}
	if snap.Categories != nil {
		if _, err := store.DeleteBySubject(ctx, userID, repos.SubjectCategory); err != nil {
			return err
		}
		for i := range snap.Categories {
			if err := s.categories.Save(ctx, userID, &snap.Categories[i]); err != nil {
				return err
			}
		}
	}
	if snap.Budgets != nil {
		if _, err := store.DeleteBySubject(ctx, userID, repos.SubjectBudget); err != nil {
			return err
		}
		for i := range snap.Budgets {
			if err := s.budgets.Save(ctx, userID, &snap.Budgets[i]); err != nil {
				return err
			}
		}
	}
	if snap.ShoppingList != nil {
		if _, err := store.DeleteBySubject(ctx, userID, repos.SubjectShopping); err != nil {
			return err
		}
		for i := range snap.ShoppingList {
			if err := s.shopping.Save(ctx, userID, &snap.ShoppingList[i]); err != nil {
				return err
			}
		}
	}
	if snap.Settings != nil {
		if err := s.settings.Save(ctx, userID, snap.Settings); err != nil {
			return err
		}
	}

	if recalculate {
		if _, err := s.ledger.RecalculateBalances(ctx); err != nil {
			return err
		}
	}

	s.logger.Info().
		Str("user", userID).
		Bool("recalculate", recalculate).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("Snapshot imported")
	return nil
}
