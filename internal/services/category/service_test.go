package category

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// --- Mock storage ---

type mockUserDataStore struct {
	records map[string]*models.UserRecord
}

func newMockUserDataStore() *mockUserDataStore {
	return &mockUserDataStore{records: make(map[string]*models.UserRecord)}
}

func (m *mockUserDataStore) key(userID, subject, key string) string {
	return userID + ":" + subject + ":" + key
}

func (m *mockUserDataStore) Get(_ context.Context, userID, subject, key string) (*models.UserRecord, error) {
	rec, ok := m.records[m.key(userID, subject, key)]
	if !ok {
		return nil, &models.NotFoundError{Entity: subject, ID: key}
	}
	return rec, nil
}

func (m *mockUserDataStore) Put(_ context.Context, rec *models.UserRecord) error {
	rec.Version++
	if rec.DateTime.IsZero() {
		rec.DateTime = time.Now()
	}
	m.records[m.key(rec.UserID, rec.Subject, rec.Key)] = rec
	return nil
}

func (m *mockUserDataStore) Delete(_ context.Context, userID, subject, key string) error {
	delete(m.records, m.key(userID, subject, key))
	return nil
}

func (m *mockUserDataStore) List(_ context.Context, userID, subject string) ([]*models.UserRecord, error) {
	prefix := userID + ":" + subject + ":"
	var out []*models.UserRecord
	for k, rec := range m.records {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockUserDataStore) Query(ctx context.Context, userID, subject string, _ interfaces.QueryOptions) ([]*models.UserRecord, error) {
	return m.List(ctx, userID, subject)
}

func (m *mockUserDataStore) DeleteBySubject(ctx context.Context, userID, subject string) (int, error) {
	recs, _ := m.List(ctx, userID, subject)
	for _, rec := range recs {
		delete(m.records, m.key(rec.UserID, rec.Subject, rec.Key))
	}
	return len(recs), nil
}

func (m *mockUserDataStore) Close() error { return nil }

type mockStorageManager struct {
	userDataStore *mockUserDataStore
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{userDataStore: newMockUserDataStore()}
}

func (m *mockStorageManager) InternalStore() interfaces.InternalStore { return nil }
func (m *mockStorageManager) UserDataStore() interfaces.UserDataStore { return m.userDataStore }
func (m *mockStorageManager) DataPath() string                        { return "" }
func (m *mockStorageManager) WriteRaw(_, _ string, _ []byte) error    { return nil }
func (m *mockStorageManager) Close() error                            { return nil }

// --- Test helpers ---

func testContext() context.Context {
	return common.WithUserContext(context.Background(), &common.UserContext{UserID: "test-user"})
}

func testService() *Service {
	return NewService(newMockStorageManager(), common.NewSilentLogger())
}

// seedTransaction writes a transaction referencing the given category.
func seedTransaction(t *testing.T, s *Service, ctx context.Context, categoryID string) {
	t.Helper()
	require.NoError(t, s.transactions.Save(ctx, "test-user", &models.Transaction{
		ID:          "txn_seed",
		Type:        models.TxExpense,
		Description: "groceries",
		Amount:      1000,
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		AccountID:   "acc_cash",
		CategoryID:  categoryID,
	}))
}

// --- Tests ---

func TestCreateCategory(t *testing.T) {
	s := testService()
	ctx := testContext()

	c, err := s.Create(ctx, models.Category{Name: "  Food  ", Type: models.TxExpense, Icon: "restaurant"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Food", c.Name)

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)
}

func TestCreateCategoryValidation(t *testing.T) {
	s := testService()
	ctx := testContext()

	cases := []models.Category{
		{Name: "", Type: models.TxExpense},
		{Name: "Transfers", Type: "transfer"},
		{Name: "Food", Type: ""},
	}
	for _, c := range cases {
		_, err := s.Create(ctx, c)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr, "category %+v should be rejected", c)
	}
}

func TestUpdateCategory(t *testing.T) {
	s := testService()
	ctx := testContext()
	c, err := s.Create(ctx, models.Category{Name: "Food", Type: models.TxExpense})
	require.NoError(t, err)

	c.Name = "Dining"
	updated, err := s.Update(ctx, *c)
	require.NoError(t, err)
	assert.Equal(t, "Dining", updated.Name)
}

func TestUpdateUnknownCategory(t *testing.T) {
	s := testService()

	_, err := s.Update(testContext(), models.Category{ID: "cat_nope", Name: "Ghost", Type: models.TxExpense})
	var nferr *models.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestTypeChangeRefusedWithTransactions(t *testing.T) {
	s := testService()
	ctx := testContext()
	c, err := s.Create(ctx, models.Category{Name: "Food", Type: models.TxExpense})
	require.NoError(t, err)
	seedTransaction(t, s, ctx, c.ID)

	c.Type = models.TxIncome
	_, err = s.Update(ctx, *c)
	var cerr *models.ConflictError
	require.ErrorAs(t, err, &cerr)

	// A rename without a type change is still fine.
	c.Type = models.TxExpense
	c.Name = "Groceries"
	_, err = s.Update(ctx, *c)
	assert.NoError(t, err)
}

func TestDeleteCategory(t *testing.T) {
	s := testService()
	ctx := testContext()
	c, err := s.Create(ctx, models.Category{Name: "Food", Type: models.TxExpense})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, c.ID))

	_, err = s.Get(ctx, c.ID)
	var nferr *models.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestDeleteCategoryWithTransactionsRefused(t *testing.T) {
	s := testService()
	ctx := testContext()
	c, err := s.Create(ctx, models.Category{Name: "Food", Type: models.TxExpense})
	require.NoError(t, err)
	seedTransaction(t, s, ctx, c.ID)

	err = s.Delete(ctx, c.ID)
	var cerr *models.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestDeleteCategoryUsedByBudgetRefused(t *testing.T) {
	s := testService()
	ctx := testContext()
	c, err := s.Create(ctx, models.Category{Name: "Food", Type: models.TxExpense})
	require.NoError(t, err)

	require.NoError(t, s.budgets.Save(ctx, "test-user", &models.Budget{
		ID:         "bgt_seed",
		Name:       "June food",
		Amount:     10000,
		CategoryID: c.ID,
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}))

	err = s.Delete(ctx, c.ID)
	var cerr *models.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestListSortedByName(t *testing.T) {
	s := testService()
	ctx := testContext()

	for _, name := range []string{"Transport", "Bills", "Food"} {
		_, err := s.Create(ctx, models.Category{Name: name, Type: models.TxExpense})
		require.NoError(t, err)
	}

	categories, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Bills", categories[0].Name)
	assert.Equal(t, "Food", categories[1].Name)
	assert.Equal(t, "Transport", categories[2].Name)
}
