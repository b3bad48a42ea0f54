package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// SettingsRepositoryInterface defines the persistence operations for user settings.
type SettingsRepositoryInterface interface {
	GetOrCreateSettings(ctx context.Context, userID uint) (*model.UserSettings, error)
	UpdateSettings(ctx context.Context, userID uint, updates map[string]any) (*model.UserSettings, error)
	ClearAPIKey(ctx context.Context, userID uint) error
}

// SettingsRepository implements SettingsRepositoryInterface.
type SettingsRepository struct {
	DB *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *gorm.DB) SettingsRepositoryInterface {
	return &SettingsRepository{DB: db}
}

// GetOrCreateSettings returns the user's settings, inserting defaults when
// the row does not exist yet.
func (r *SettingsRepository) GetOrCreateSettings(ctx context.Context, userID uint) (*model.UserSettings, error) {
	settings := model.UserSettings{
		UserID:           userID,
		AIDepth:          model.DepthMedium,
		Theme:            model.ThemeSystem,
		NotificationTime: "21:00",
	}
	err := r.DB.WithContext(ctx).
		Where(model.UserSettings{UserID: userID}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a column => value map. Keys are column names.
func (r *SettingsRepository) UpdateSettings(ctx context.Context, userID uint, updates map[string]any) (*model.UserSettings, error) {
	settings, err := r.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(settings).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetOrCreateSettings(ctx, userID)
}

func (r *SettingsRepository) ClearAPIKey(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Model(&model.UserSettings{}).
		Where("user_id = ?", userID).
		Update("ai_api_key", nil).Error
}
