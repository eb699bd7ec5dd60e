package repos

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// BudgetRepo stores budgets in the user data store.
type BudgetRepo struct {
	store interfaces.UserDataStore
}

func NewBudgetRepo(store interfaces.UserDataStore) *BudgetRepo {
	return &BudgetRepo{store: store}
}

func (r *BudgetRepo) Get(ctx context.Context, userID, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := getJSON(ctx, r.store, userID, SubjectBudget, id, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepo) Save(ctx context.Context, userID string, budget *models.Budget) error {
	return putJSON(ctx, r.store, userID, SubjectBudget, budget.ID, budget)
}

func (r *BudgetRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, userID, SubjectBudget, id)
}

// List returns all budgets ordered by start date, most recent first.
func (r *BudgetRepo) List(ctx context.Context, userID string) ([]*models.Budget, error) {
	records, err := r.store.List(ctx, userID, SubjectBudget)
	if err != nil {
		return nil, err
	}
	budgets := make([]*models.Budget, 0, len(records))
	for _, rec := range records {
		var budget models.Budget
		if err := json.Unmarshal([]byte(rec.Value), &budget); err != nil {
			continue
		}
		budgets = append(budgets, &budget)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].StartDate.After(budgets[j].StartDate)
	})
	return budgets, nil
}
