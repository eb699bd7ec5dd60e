package repos

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// AccountRepo stores accounts in the user data store.
type AccountRepo struct {
	store interfaces.UserDataStore
}

func NewAccountRepo(store interfaces.UserDataStore) *AccountRepo {
	return &AccountRepo{store: store}
}

func (r *AccountRepo) Get(ctx context.Context, userID, id string) (*models.Account, error) {
	var account models.Account
	if err := getJSON(ctx, r.store, userID, SubjectAccount, id, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) Save(ctx context.Context, userID string, account *models.Account) error {
	return putJSON(ctx, r.store, userID, SubjectAccount, account.ID, account)
}

func (r *AccountRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, userID, SubjectAccount, id)
}

// List returns all accounts ordered by creation time, oldest first.
func (r *AccountRepo) List(ctx context.Context, userID string) ([]*models.Account, error) {
	records, err := r.store.List(ctx, userID, SubjectAccount)
	if err != nil {
		return nil, err
	}
	accounts := make([]*models.Account, 0, len(records))
	for _, rec := range records {
		var account models.Account
		if err := json.Unmarshal([]byte(rec.Value), &account); err != nil {
			continue
		}
		accounts = append(accounts, &account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}
