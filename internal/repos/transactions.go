package repos

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// TransactionRepo stores transactions in the user data store.
type TransactionRepo struct {
	store interfaces.UserDataStore
}

func NewTransactionRepo(store interfaces.UserDataStore) *TransactionRepo {
	return &TransactionRepo{store: store}
}

func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := getJSON(ctx, r.store, userID, SubjectTransaction, id, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepo) Save(ctx context.Context, userID string, txn *models.Transaction) error {
	return putJSON(ctx, r.store, userID, SubjectTransaction, txn.ID, txn)
}

func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, userID, SubjectTransaction, id)
}

// List returns transactions matching the filter, newest first by
// transaction date. Filtering happens in memory; transaction volumes for a
// single user are small.
func (r *TransactionRepo) List(ctx context.Context, userID string, filter interfaces.TransactionFilter) ([]*models.Transaction, error) {
	records, err := r.store.List(ctx, userID, SubjectTransaction)
	if err != nil {
		return nil, err
	}

	txns := make([]*models.Transaction, 0, len(records))
	for _, rec := range records {
		var txn models.Transaction
		if err := json.Unmarshal([]byte(rec.Value), &txn); err != nil {
			continue
		}
		if !matchesFilter(&txn, filter) {
			continue
		}
		txns = append(txns, &txn)
	}

	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	if filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
	}
	return txns, nil
}

// CountByAccount returns how many transactions reference the account.
func (r *TransactionRepo) CountByAccount(ctx context.Context, userID, accountID string) (int, error) {
	txns, err := r.List(ctx, userID, interfaces.TransactionFilter{AccountID: accountID})
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}

// CountByCategory returns how many transactions reference the category.
func (r *TransactionRepo) CountByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	txns, err := r.List(ctx, userID, interfaces.TransactionFilter{CategoryID: categoryID})
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}

func matchesFilter(txn *models.Transaction, filter interfaces.TransactionFilter) bool {
	if filter.Type != "" && txn.Type != filter.Type {
		return false
	}
	if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
		return false
	}
	if filter.AccountID != "" && txn.AccountID != filter.AccountID {
		return false
	}
	if filter.From != nil && txn.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && txn.Date.After(*filter.To) {
		return false
	}
	if filter.IncludeInReports != nil && txn.IncludeInReports != *filter.IncludeInReports {
		return false
	}
	return true
}
