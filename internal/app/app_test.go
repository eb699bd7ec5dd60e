package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/repos"
	"github.com/finch-money/finch/internal/storage/localfs"
)

func testApp(t *testing.T) *App {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Driver = "file"
	config.Storage.DataPath = t.TempDir()

	logger := common.NewSilentLogger()
	store, err := localfs.NewManager(logger, config.Storage.DataPath)
	require.NoError(t, err)

	a, err := NewAppWithStorage(config, logger, store)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAppWiresServices(t *testing.T) {
	a := testApp(t)

	assert.NotNil(t, a.LedgerService)
	assert.NotNil(t, a.CategoryService)
	assert.NotNil(t, a.BudgetService)
	assert.NotNil(t, a.ShoppingService)
	assert.NotNil(t, a.ReportService)
	assert.NotNil(t, a.BackupService)
	assert.Nil(t, a.AdvisorClient, "advisor stays off without an API key")
}

func TestSeedUserDefaults(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	require.NoError(t, a.SeedUserDefaults(ctx, "usr_new"))

	store := a.Storage.UserDataStore()
	categories, err := repos.NewCategoryRepo(store).List(ctx, "usr_new")
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	accounts, err := repos.NewAccountRepo(store).List(ctx, "usr_new")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	settings, err := repos.NewSettingsRepo(store).Get(ctx, "usr_new")
	require.NoError(t, err)
	assert.Equal(t, "USD", settings.Currency)
}

func TestSeedUserDefaultsIdempotent(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	require.NoError(t, a.SeedUserDefaults(ctx, "usr_new"))

	// Mutate the seeded data, then seed again; nothing is overwritten.
	store := a.Storage.UserDataStore()
	catRepo := repos.NewCategoryRepo(store)
	categories, err := catRepo.List(ctx, "usr_new")
	require.NoError(t, err)
	require.NoError(t, catRepo.Delete(ctx, "usr_new", categories[0].ID))

	settingsRepo := repos.NewSettingsRepo(store)
	settings, err := settingsRepo.Get(ctx, "usr_new")
	require.NoError(t, err)
	settings.Currency = "EUR"
	require.NoError(t, settingsRepo.Save(ctx, "usr_new", settings))

	require.NoError(t, a.SeedUserDefaults(ctx, "usr_new"))

	after, err := catRepo.List(ctx, "usr_new")
	require.NoError(t, err)
	assert.Len(t, after, 5, "existing categories are never re-seeded")

	got, err := settingsRepo.Get(ctx, "usr_new")
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
}
