package report

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
	"github.com/finch-money/finch/internal/repos"
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
	rawWrites     map[string][]byte
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{
		userDataStore: newMockUserDataStore(),
		rawWrites:     make(map[string][]byte),
	}
}

func (m *mockStorageManager) InternalStore() interfaces.InternalStore { return nil }
func (m *mockStorageManager) UserDataStore() interfaces.UserDataStore { return m.userDataStore }
func (m *mockStorageManager) DataPath() string                        { return "" }
func (m *mockStorageManager) WriteRaw(subdir, key string, data []byte) error {
	m.rawWrites[subdir+"/"+key] = data
	return nil
}
func (m *mockStorageManager) Close() error { return nil }

// --- Test helpers ---

const testUser = "test-user"

func testContext() context.Context {
	return common.WithUserContext(context.Background(), &common.UserContext{UserID: testUser})
}

func testService(t *testing.T) (*Service, *mockStorageManager) {
	t.Helper()
	storage := newMockStorageManager()
	s := NewService(storage, common.NewSilentLogger(), "USD")

	accounts := repos.NewAccountRepo(storage.UserDataStore())
	require.NoError(t, accounts.Save(testContext(), testUser,
		&models.Account{ID: "acc_cash", Name: "Cash", Balance: 10000}))
	require.NoError(t, accounts.Save(testContext(), testUser,
		&models.Account{ID: "acc_bank", Name: "Bank", Balance: 50000}))

	categories := repos.NewCategoryRepo(storage.UserDataStore())
	require.NoError(t, categories.Save(testContext(), testUser,
		&models.Category{ID: "cat_food", Name: "Food", Type: models.TxExpense}))
	require.NoError(t, categories.Save(testContext(), testUser,
		&models.Category{ID: "cat_salary", Name: "Salary", Type: models.TxIncome}))
	return s, storage
}

func seed(t *testing.T, s *Service, txn models.Transaction) {
	t.Helper()
	if txn.ID == "" {
		txn.ID = repos.NewID("txn")
	}
	require.NoError(t, s.transactions.Save(testContext(), testUser, &txn))
}

func date(month, day int) time.Time {
	return time.Date(2025, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func seedStandardSet(t *testing.T, s *Service) {
	t.Helper()
	seed(t, s, models.Transaction{Type: models.TxIncome, Amount: 500000, Date: date(6, 1),
		AccountID: "acc_bank", CategoryID: "cat_salary", IncludeInReports: true})
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 12000, Date: date(6, 3),
		AccountID: "acc_cash", CategoryID: "cat_food", IncludeInReports: true})
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 8000, Date: date(6, 20),
		AccountID: "acc_cash", CategoryID: "cat_food", IncludeInReports: true})
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 30000, Date: date(7, 5),
		AccountID: "acc_bank", CategoryID: "cat_food", IncludeInReports: true})
	// Excluded from reports.
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 99999, Date: date(6, 10),
		AccountID: "acc_cash", CategoryID: "cat_food", IncludeInReports: false})
}

// --- Tests ---

func TestSummary(t *testing.T) {
	s, _ := testService(t)
	seedStandardSet(t, s)

	summary, err := s.Summary(testContext(), interfaces.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.Money(500000), summary.TotalIncome)
	assert.Equal(t, models.Money(50000), summary.TotalExpense)
	assert.Equal(t, models.Money(60000), summary.TotalBalance)
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, 4, summary.Count)
}

func TestSummaryExcludedCanBeRequested(t *testing.T) {
	s, _ := testService(t)
	seedStandardSet(t, s)

	excluded := false
	summary, err := s.Summary(testContext(), interfaces.TransactionFilter{IncludeInReports: &excluded})
	require.NoError(t, err)
	assert.Equal(t, models.Money(99999), summary.TotalExpense)
	assert.Equal(t, 1, summary.Count)
}

func TestByCategory(t *testing.T) {
	s, _ := testService(t)
	seedStandardSet(t, s)

	rows, err := s.ByCategory(testContext(), interfaces.TransactionFilter{Type: models.TxExpense})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cat_food", rows[0].CategoryID)
	assert.Equal(t, "Food", rows[0].Name)
	assert.Equal(t, models.Money(50000), rows[0].Total)
}

func TestByCategoryUnknownCategoryLabeled(t *testing.T) {
	s, _ := testService(t)
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 100, Date: date(6, 1),
		AccountID: "acc_cash", CategoryID: "", IncludeInReports: true})

	rows, err := s.ByCategory(testContext(), interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Uncategorized", rows[0].Name)
}

func TestByAccount(t *testing.T) {
	s, _ := testService(t)
	seedStandardSet(t, s)

	rows, err := s.ByAccount(testContext(), interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	nets := make(map[string]models.Money)
	for _, row := range rows {
		nets[row.AccountID] = row.Net
	}
	assert.Equal(t, models.Money(470000), nets["acc_bank"])
	assert.Equal(t, models.Money(-20000), nets["acc_cash"])
}

func TestByTimeBucketMonth(t *testing.T) {
	s, _ := testService(t)
	seedStandardSet(t, s)

	rows, err := s.ByTimeBucket(testContext(), interfaces.TransactionFilter{}, "month")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-06", rows[0].Key)
	assert.Equal(t, models.Money(500000), rows[0].Income)
	assert.Equal(t, models.Money(20000), rows[0].Expense)
	assert.Equal(t, models.Money(480000), rows[0].Net)

	assert.Equal(t, "2025-07", rows[1].Key)
	assert.Equal(t, models.Money(30000), rows[1].Expense)
}

func TestByTimeBucketDayAndWeekKeys(t *testing.T) {
	s, _ := testService(t)
	seed(t, s, models.Transaction{Type: models.TxExpense, Amount: 100, Date: date(1, 2),
		AccountID: "acc_cash", IncludeInReports: true})

	days, err := s.ByTimeBucket(testContext(), interfaces.TransactionFilter{}, "day")
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-01-02", days[0].Key)

	weeks, err := s.ByTimeBucket(testContext(), interfaces.TransactionFilter{}, "week")
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2025-W01", weeks[0].Key)
}

func TestByTimeBucketInvalidBucketing(t *testing.T) {
	s, _ := testService(t)
	_, err := s.ByTimeBucket(testContext(), interfaces.TransactionFilter{}, "quarter")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRenderCategoryChart(t *testing.T) {
	s, storage := testService(t)
	seedStandardSet(t, s)

	png, err := s.RenderCategoryChart(testContext(), interfaces.TransactionFilter{Type: models.TxExpense})
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
	assert.Equal(t, png, storage.rawWrites["reports/by_category.png"])
}

func TestRenderCategoryChartNoData(t *testing.T) {
	s, _ := testService(t)
	_, err := s.RenderCategoryChart(testContext(), interfaces.TransactionFilter{})
	require.Error(t, err)
}
