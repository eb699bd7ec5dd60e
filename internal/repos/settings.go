package repos

import (
	"context"

	"github.com/finch-money/finch/internal/interfaces"
	"github.com/finch-money/finch/internal/models"
)

// settingsKey is the fixed record key; each user has a single settings doc.
const settingsKey = "settings"

// SettingsRepo stores per-user display preferences.
type SettingsRepo struct {
	store interfaces.UserDataStore
}

func NewSettingsRepo(store interfaces.UserDataStore) *SettingsRepo {
	return &SettingsRepo{store: store}
}

// Get returns the user's settings, falling back to defaults when none are
// stored yet.
func (r *SettingsRepo) Get(ctx context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	if err := getJSON(ctx, r.store, userID, SubjectSettings, settingsKey, &settings); err != nil {
		if _, ok := err.(*models.NotFoundError); ok {
			defaults := models.DefaultSettings()
			return &defaults, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepo) Save(ctx context.Context, userID string, settings *models.Settings) error {
	return putJSON(ctx, r.store, userID, SubjectSettings, settingsKey, settings)
}
