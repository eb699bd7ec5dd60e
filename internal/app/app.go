// Package app wires configuration, storage, services, and clients into a
// single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finch-money/finch/internal/clients/advisor"
	"github.com/finch-money/finch/internal/common"
	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
	"github.com/finch-money/finch/internal/repos"
	"github.com/finch-money/finch/internal/services/backup"
	"github.com/finch-money/finch/internal/services/budget"
	"github.com/finch-money/finch/internal/services/category"
	"github.com/finch-money/finch/internal/services/ledger"
	"github.com/finch-money/finch/internal/services/report"
	"github.com/finch-money/finch/internal/services/shopping"
	"github.com/finch-money/finch/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	LedgerService   interfaces.LedgerService
	CategoryService interfaces.CategoryService
	BudgetService   interfaces.BudgetService
	ShoppingService interfaces.ShoppingService
	ReportService   interfaces.ReportService
	BackupService   interfaces.BackupService
	AdvisorClient   interfaces.AdvisorClient
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, and every service.
// configPath may be empty, in which case the default resolution is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FINCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finch.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.DataPath != "" && !filepath.IsAbs(config.Storage.DataPath) {
		config.Storage.DataPath = filepath.Join(binDir, config.Storage.DataPath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewAppWithStorage(config, logger, storageManager)
}

// NewAppWithStorage builds the service graph on an existing storage manager.
// Tests use it to inject in-memory or containerized backends.
func NewAppWithStorage(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager) (*App, error) {
	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		StartupTime: time.Now(),
	}

	a.LedgerService = ledger.NewService(storageManager, logger)
	a.CategoryService = category.NewService(storageManager, logger)
	a.BudgetService = budget.NewService(storageManager, logger)
	a.ShoppingService = shopping.NewService(storageManager, a.LedgerService, logger)
	a.ReportService = report.NewService(storageManager, logger, config.DisplayCurrency)
	a.BackupService = backup.NewService(storageManager, a.LedgerService, logger)

	if config.Advisor.APIKey != "" {
		client, err := advisor.NewClient(context.Background(), config.Advisor.APIKey,
			advisor.WithLogger(logger),
			advisor.WithModel(config.Advisor.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Advisor client unavailable")
		} else {
			a.AdvisorClient = client
		}
	} else {
		logger.Info().Msg("Advisor API key not configured - advice endpoint disabled")
	}

	// The unauthenticated single-user scope gets the same starter data as a
	// freshly registered user.
	if err := a.SeedUserDefaults(context.Background(), common.DefaultUserID); err != nil {
		return nil, fmt.Errorf("failed to seed default user: %w", err)
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Driver).
		Msg("Finch initialized")
	return a, nil
}

// SeedUserDefaults writes the default categories, accounts, and settings for
// a newly registered user. Existing records are never overwritten.
func (a *App) SeedUserDefaults(ctx context.Context, userID string) error {
	store := a.Storage.UserDataStore()
	categories := repos.NewCategoryRepo(store)
	accounts := repos.NewAccountRepo(store)
	settings := repos.NewSettingsRepo(store)

	existing, err := categories.List(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, c := range models.DefaultCategories() {
			if err := categories.Save(ctx, userID, &c); err != nil {
				return err
			}
		}
	}

	existingAccounts, err := accounts.List(ctx, userID)
	if err != nil {
		return err
	}
	if len(existingAccounts) == 0 {
		for _, acc := range models.DefaultAccounts() {
			if err := accounts.Save(ctx, userID, &acc); err != nil {
				return err
			}
		}
	}

	if _, err := store.Get(ctx, userID, repos.SubjectSettings, "settings"); err != nil {
		if _, ok := err.(*models.NotFoundError); !ok {
			return err
		}
		defaults := models.DefaultSettings()
		if err := settings.Save(ctx, userID, &defaults); err != nil {
			return err
		}
	}

	a.Logger.Info().Str("user", userID).Msg("Seeded default user data")
	return nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.AdvisorClient != nil {
		if err := a.AdvisorClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close advisor client")
		}
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
