// Package ledger is the exclusive authority over account balances. Every
// balance mutation in Finch flows through this service, which keeps each
// account's materialized balance consistent with its transaction history.
package ledger

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
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService
type Service struct {
	accounts     *repos.AccountRepo
	transactions *repos.TransactionRepo
	logger       *common.Logger
}

// NewService creates a new ledger service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		accounts:     repos.NewAccountRepo(storage.UserDataStore()),
		transactions: repos.NewTransactionRepo(storage.UserDataStore()),
		logger:       logger,
	}
}

// validateNewTransaction checks caller-supplied transaction fields.
// Referential checks (account existence) happen separately.
func validateNewTransaction(tx models.NewTransaction) error {
	if !models.ValidTransactionType(tx.Type) {
		return models.NewValidationError("invalid transaction type %q; must be income or expense", tx.Type)
	}
	if tx.Amount <= 0 {
		return models.NewValidationError("amount must be positive")
	}
	desc := strings.TrimSpace(tx.Description)
	if desc == "" {
		return models.NewValidationError("description is required")
	}
	if len(desc) > 500 {
		return models.NewValidationError("description exceeds 500 characters")
	}
	if len(tx.Notes) > 1000 {
		return models.NewValidationError("notes exceeds 1000 characters")
	}
	if tx.Date.IsZero() {
		return models.NewValidationError("date is required")
	}
	if tx.AccountID == "" {
		return models.NewValidationError("account is required")
	}
	return nil
}

// --- Accounts ---

// CreateAccount creates an account with an owner-set opening balance.
func (s *Service) CreateAccount(ctx context.Context, name string, balance models.Money, icon string) (*models.Account, error) {
	userID := common.ResolveUserID(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("account name is required")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("account name exceeds 100 characters")
	}

	now := time.Now()
	account := &models.Account{
		ID:        repos.NewID("acc"),
		Name:      name,
		Balance:   balance,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Save(ctx, userID, account); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("account", account.ID).
		Str("balance", balance.String()).
		Msg("Account created")
	return account, nil
}

// UpdateAccount rewrites an account's name, icon, and balance. A balance
// passed here is a direct owner edit, not a ledger effect.
func (s *Service) UpdateAccount(ctx context.Context, id, name string, balance models.Money, icon string) (*models.Account, error) {
	userID := common.ResolveUserID(ctx)

	account, err := s.accounts.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("account name is required")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("account name exceeds 100 characters")
	}

	account.Name = name
	account.Balance = balance
	account.Icon = icon
	account.UpdatedAt = time.Now()

	if err := s.accounts.Save(ctx, userID, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account. Accounts still referenced by
// transactions cannot be deleted; delete the transactions first.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)

	if _, err := s.accounts.Get(ctx, userID, id); err != nil {
		return err
	}

	count, err := s.transactions.CountByAccount(ctx, userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError("account %s has %d transactions; delete them first", id, count)
	}

	if err := s.accounts.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("user", userID).Str("account", id).Msg("Account deleted")
	return nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	userID := common.ResolveUserID(ctx)
	return s.accounts.Get(ctx, userID, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	userID := common.ResolveUserID(ctx)
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, *a)
	}
	return out, nil
}

// --- Transactions ---

// PostTransaction validates, persists, and applies a new transaction to its
// account balance. Validation failures leave no partial effect.
func (s *Service) PostTransaction(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error) {
	userID := common.ResolveUserID(ctx)

	if err := validateNewTransaction(tx); err != nil {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, userID, tx.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := &models.Transaction{
		ID:               repos.NewID("txn"),
		Type:             tx.Type,
		Description:      strings.TrimSpace(tx.Description),
		Amount:           tx.Amount,
		Date:             tx.Date,
		AccountID:        tx.AccountID,
		CategoryID:       tx.CategoryID,
		IncludeInReports: tx.IncludeInReports,
		Notes:            tx.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.transactions.Save(ctx, userID, txn); err != nil {
		return nil, err
	}

	account.Balance += txn.SignedAmount()
	account.UpdatedAt = now
	if err := s.accounts.Save(ctx, userID, account); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("transaction", txn.ID).
		Str("account", account.ID).
		Str("type", string(txn.Type)).
		Str("amount", txn.Amount.String()).
		Msg("Transaction posted")
	return txn, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	userID := common.ResolveUserID(ctx)
	return s.transactions.Get(ctx, userID, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter interfaces.TransactionFilter) ([]models.Transaction, error) {
	userID := common.ResolveUserID(ctx)
	txns, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, *t)
	}
	return out, nil
}

// reverseEffect undoes a transaction's balance effect. A missing account is
// tolerated: the effect is unrecoverable, so log and move on.
func (s *Service) reverseEffect(ctx context.Context, userID string, txn *models.Transaction) error {
	account, err := s.accounts.Get(ctx, userID, txn.AccountID)
	if err != nil {
		if _, ok := err.(*models.NotFoundError); ok {
			s.logger.Warn().
				Str("user", userID).
				Str("transaction", txn.ID).
				Str("account", txn.AccountID).
				Msg("Account gone; skipping balance reversal")
			return nil
		}
		return err
	}
	account.Balance -= txn.SignedAmount()
	account.UpdatedAt = time.Now()
	return s.accounts.Save(ctx, userID, account)
}

// UpdateTransaction replaces a transaction's fields and rebalances the
// affected accounts: the old effect is reversed and the new effect applied,
// which handles amount, type, and account changes uniformly. The new values
// are validated before any balance is touched.
func (s *Service) UpdateTransaction(ctx context.Context, id string, tx models.NewTransaction) (*models.Transaction, error) {
	userID := common.ResolveUserID(ctx)

	existing, err := s.transactions.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := validateNewTransaction(tx); err != nil {
		return nil, err
	}
	if _, err := s.accounts.Get(ctx, userID, tx.AccountID); err != nil {
		return nil, err
	}

	if err := s.reverseEffect(ctx, userID, existing); err != nil {
		return nil, err
	}

	updated := &models.Transaction{
		ID:               existing.ID,
		Type:             tx.Type,
		Description:      strings.TrimSpace(tx.Description),
		Amount:           tx.Amount,
		Date:             tx.Date,
		AccountID:        tx.AccountID,
		CategoryID:       tx.CategoryID,
		IncludeInReports: tx.IncludeInReports,
		Notes:            tx.Notes,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        time.Now(),
	}
	if err := s.transactions.Save(ctx, userID, updated); err != nil {
		return nil, err
	}

	// Read after the reversal in case old and new account are the same record.
	newAccount, err := s.accounts.Get(ctx, userID, tx.AccountID)
	if err != nil {
		return nil, err
	}
	newAccount.Balance += updated.SignedAmount()
	newAccount.UpdatedAt = time.Now()
	if err := s.accounts.Save(ctx, userID, newAccount); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("transaction", id).
		Msg("Transaction updated")
	return updated, nil
}

// DeleteTransaction reverses the transaction's balance effect and removes
// the record.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	userID := common.ResolveUserID(ctx)

	txn, err := s.transactions.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.reverseEffect(ctx, userID, txn); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("user", userID).
		Str("transaction", id).
		Msg("Transaction deleted")
	return nil
}

// --- Transfer ---

// Transfer moves amount from one account to another. The pair of balance
// edits conserves total balance; no transaction record is written, so
// transfers never appear in reports.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount models.Money) error {
	userID := common.ResolveUserID(ctx)

	if amount <= 0 {
		return models.NewValidationError("transfer amount must be positive")
	}
	if fromAccountID == toAccountID {
		return models.NewValidationError("cannot transfer to the same account")
	}

	from, err := s.accounts.Get(ctx, userID, fromAccountID)
	if err != nil {
		return err
	}
	to, err := s.accounts.Get(ctx, userID, toAccountID)
	if err != nil {
		return err
	}

	if from.Balance < amount {
		return &models.InsufficientFundsError{
			AccountID: fromAccountID,
			Requested: amount,
			Available: from.Balance,
		}
	}

	now := time.Now()
	from.Balance -= amount
	from.UpdatedAt = now
	to.Balance += amount
	to.UpdatedAt = now

	if err := s.accounts.Save(ctx, userID, from); err != nil {
		return err
	}
	if err := s.accounts.Save(ctx, userID, to); err != nil {
		return err
	}

	s.logger.Info().
		Str("user", userID).
		Str("from", fromAccountID).
		Str("to", toAccountID).
		Str("amount", amount.String()).
		Msg("Transfer completed")
	return nil
}

// --- Recalculation ---

// RecalculateBalances rebuilds every account balance from the full
// transaction history and persists the corrected values. Used after imports
// and as a consistency repair.
//
// Lossy for state not backed by transaction records: opening balances set at
// account creation and past transfers (which write no records) are folded
// into zero. Callers opt in knowing the history becomes the single source of
// truth.
func (s *Service) RecalculateBalances(ctx context.Context) (map[string]models.Money, error) {
	userID := common.ResolveUserID(ctx)

	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.transactions.List(ctx, userID, interfaces.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	sums := make(map[string]models.Money, len(accounts))
	for _, a := range accounts {
		sums[a.ID] = 0
	}
	for _, t := range txns {
		if _, ok := sums[t.AccountID]; !ok {
			s.logger.Warn().
				Str("user", userID).
				Str("transaction", t.ID).
				Str("account", t.AccountID).
				Msg("Transaction references unknown account")
			continue
		}
		sums[t.AccountID] += t.SignedAmount()
	}

	now := time.Now()
	for _, a := range accounts {
		if a.Balance == sums[a.ID] {
			continue
		}
		s.logger.Info().
			Str("user", userID).
			Str("account", a.ID).
			Str("stored", a.Balance.String()).
			Str("computed", sums[a.ID].String()).
			Msg("Correcting account balance")
		a.Balance = sums[a.ID]
		a.UpdatedAt = now
		if err := s.accounts.Save(ctx, userID, a); err != nil {
			return nil, err
		}
	}
	return sums, nil
}
