package repos

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// CategoryRepo stores categories in the user data store.
type CategoryRepo struct {
	store interfaces.UserDataStore
}

func NewCategoryRepo(store interfaces.UserDataStore) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) Get(ctx context.Context, userID, id string) (*models.Category, error) {
	var category models.Category
	if err := getJSON(ctx, r.store, userID, SubjectCategory, id, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepo) Save(ctx context.Context, userID string, category *models.Category) error {
	return putJSON(ctx, r.store, userID, SubjectCategory, category.ID, category)
}

func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, userID, SubjectCategory, id)
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context, userID string) ([]*models.Category, error) {
	records, err := r.store.List(ctx, userID, SubjectCategory)
	if err != nil {
		return nil, err
	}
	categories := make([]*models.Category, 0, len(records))
	for _, rec := range records {
		var category models.Category
		if err := json.Unmarshal([]byte(rec.Value), &category); err != nil {
			continue
		}
		categories = append(categories, &category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}
