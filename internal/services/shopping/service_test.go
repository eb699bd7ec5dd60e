package shopping

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/services/ledger"
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
		if strings.HasPrefix(k, prefix) {
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

func (m *mockStorageManager) InternalStore() interfaces.InternalStore { return nil }
func (m *mockStorageManager) UserDataStore() interfaces.UserDataStore { return m.userDataStore }
func (m *mockStorageManager) DataPath() string                        { return "" }
func (m *mockStorageManager) WriteRaw(_, _ string, _ []byte) error    { return nil }
func (m *mockStorageManager) Close() error                            { return nil }

// --- Test helpers ---

func testContext() context.Context {
	return common.WithUserContext(context.Background(), &common.UserContext{UserID: "test-user"})
}

// testService wires the shopping service to a real ledger over shared
// storage so conversions exercise actual balance effects.
func testService(t *testing.T) (*Service, interfaces.LedgerService, *models.Account) {
	t.Helper()
	storage := &mockStorageManager{userDataStore: newMockUserDataStore()}
	logger := common.NewSilentLogger()
	ledgerSvc := ledger.NewService(storage, logger)
	s := NewService(storage, ledgerSvc, logger)

	account, err := ledgerSvc.CreateAccount(testContext(), "Cash", 10000, "")
	require.NoError(t, err)
	return s, ledgerSvc, account
}

func item(name string, amount models.Money, priority models.Priority) models.ShoppingItem {
	return models.ShoppingItem{Name: name, Amount: amount, Priority: priority}
}

// --- Tests ---

func TestCreateDefaultsPriority(t *testing.T) {
	s, _, _ := testService(t)

	created, err := s.Create(testContext(), item("Headphones", 4999, ""))
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.NotEmpty(t, created.ID)
}

func TestCreateValidation(t *testing.T) {
	s, _, _ := testService(t)
	ctx := testContext()

	_, err := s.Create(ctx, item(" ", 100, ""))
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = s.Create(ctx, item("Socks", 0, ""))
	require.ErrorAs(t, err, &verr)

	_, err = s.Create(ctx, item("Socks", 100, "urgent"))
	require.ErrorAs(t, err, &verr)
}

func TestListSortsByPriorityThenDate(t *testing.T) {
	s, _, _ := testService(t)
	ctx := testContext()

	early := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	low := item("Low", 100, models.PriorityLow)
	highLate := item("HighLate", 100, models.PriorityHigh)
	highLate.Date = &late
	highEarly := item("HighEarly", 100, models.PriorityHigh)
	highEarly.Date = &early

	for _, it := range []models.ShoppingItem{low, highLate, highEarly} {
		_, err := s.Create(ctx, it)
		require.NoError(t, err)
	}

	items, err := s.List(ctx, "priority")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "HighEarly", items[0].Name)
	assert.Equal(t, "HighLate", items[1].Name)
	assert.Equal(t, "Low", items[2].Name)
}

func TestListSortsByAmountAndDate(t *testing.T) {
	s, _, _ := testService(t)
	ctx := testContext()

	dated := item("Dated", 100, "")
	d := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	dated.Date = &d
	undated := item("Undated", 900, "")

	for _, it := range []models.ShoppingItem{dated, undated} {
		_, err := s.Create(ctx, it)
		require.NoError(t, err)
	}

	byAmount, err := s.List(ctx, "amount")
	require.NoError(t, err)
	assert.Equal(t, "Undated", byAmount[0].Name)

	byDate, err := s.List(ctx, "date")
	require.NoError(t, err)
	assert.Equal(t, "Dated", byDate[0].Name)
	assert.Equal(t, "Undated", byDate[1].Name)

	_, err = s.List(ctx, "color")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestConvertPostsExpenseAndRemovesItem(t *testing.T) {
	s, ledgerSvc, account := testService(t)
	ctx := testContext()

	it := item("Blender", 2500, models.PriorityHigh)
	it.AccountID = account.ID
	it.CategoryID = "cat_shopping"
	created, err := s.Create(ctx, it)
	require.NoError(t, err)

	txn, err := s.Convert(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxExpense, txn.Type)
	assert.Equal(t, "Blender", txn.Description)
	assert.Equal(t, models.Money(2500), txn.Amount)
	assert.Equal(t, "cat_shopping", txn.CategoryID)
	assert.True(t, txn.IncludeInReports)

	got, err := ledgerSvc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(7500), got.Balance)

	_, err = s.Get(ctx, created.ID)
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestConvertWithoutAccountFails(t *testing.T) {
	s, _, _ := testService(t)
	ctx := testContext()

	created, err := s.Create(ctx, item("Boots", 8000, ""))
	require.NoError(t, err)

	_, err = s.Convert(ctx, created.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	// Item survives the failed conversion.
	_, err = s.Get(ctx, created.ID)
	require.NoError(t, err)
}

func TestConvertUnknownAccountLeavesItem(t *testing.T) {
	s, _, _ := testService(t)
	ctx := testContext()

	it := item("Lamp", 3000, "")
	it.AccountID = "acc_missing"
	created, err := s.Create(ctx, it)
	require.NoError(t, err)

	_, err = s.Convert(ctx, created.ID)
	var nerr *models.NotFoundError
	require.ErrorAs(t, err, &nerr)

	_, err = s.Get(ctx, created.ID)
	require.NoError(t, err)
}
