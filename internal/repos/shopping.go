package repos

import (
	"context"
	"encoding/json"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// ShoppingRepo stores planned purchases in the user data store.
type ShoppingRepo struct {
	store interfaces.UserDataStore
}

func NewShoppingRepo(store interfaces.UserDataStore) *ShoppingRepo {
	return &ShoppingRepo{store: store}
}

func (r *ShoppingRepo) Get(ctx context.Context, userID, id string) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if err := getJSON(ctx, r.store, userID, SubjectShopping, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ShoppingRepo) Save(ctx context.Context, userID string, item *models.ShoppingItem) error {
	return putJSON(ctx, r.store, userID, SubjectShopping, item.ID, item)
}

func (r *ShoppingRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, userID, SubjectShopping, id)
}

// List returns all shopping items unordered; the service layer sorts.
func (r *ShoppingRepo) List(ctx context.Context, userID string) ([]*models.ShoppingItem, error) {
	records, err := r.store.List(ctx, userID, SubjectShopping)
	if err != nil {
		return nil, err
	}
	items := make([]*models.ShoppingItem, 0, len(records))
	for _, rec := range records {
		var item models.ShoppingItem
		if err := json.Unmarshal([]byte(rec.Value), &item); err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}
