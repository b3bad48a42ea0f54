package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
)

// SettingsPatch is a partial settings update; nil fields are left untouched.
// An empty AIAPIKey clears the stored key.
type SettingsPatch struct {
	AIAPIKey             *string `json:"ai_api_key"`
	AIDepth              *string `json:"ai_depth"`
	Theme                *string `json:"theme"`
	DiscreteMode         *bool   `json:"discrete_mode"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	NotificationTime     *string `json:"notification_time" validate:"omitempty,datetime=15:04"`
}

// APIKeyTest reports the outcome of probing an API key.
type APIKeyTest struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// KeyTester probes an API key against the completion API.
type KeyTester interface {
	Ping(ctx context.Context, apiKey string) error
}

// SettingsServiceInterface defines the settings operations.
type SettingsServiceInterface interface {
	GetSettings(ctx context.Context, userID uint) (*model.SettingsView, error)
	UpdateSettings(ctx context.Context, userID uint, patch SettingsPatch) (*model.SettingsView, error)
	TestAPIKey(ctx context.Context, userID uint, apiKey string) (*APIKeyTest, error)
	DeleteAPIKey(ctx context.Context, userID uint) error
}

// SettingsService implements SettingsServiceInterface.
type SettingsService struct {
	SettingsRepo repository.SettingsRepositoryInterface
	Tester       KeyTester
	logger       zerolog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo repository.SettingsRepositoryInterface, tester KeyTester, logger zerolog.Logger) SettingsServiceInterface {
	return &SettingsService{
		SettingsRepo: settingsRepo,
		Tester:       tester,
		logger:       logger.With().Str("component", "settings-service").Logger(),
	}
}

func validDepth(d string) bool {
	return d == model.DepthShallow || d == model.DepthMedium || d == model.DepthDeep
}

func validTheme(t string) bool {
	return t == model.ThemeLight || t == model.ThemeDark || t == model.ThemeSystem
}

// GetSettings returns the masked settings, creating defaults on first access.
func (s *SettingsService) GetSettings(ctx context.Context, userID uint) (*model.SettingsView, error) {
	settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	view := settings.View()
	return &view, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, userID uint, patch SettingsPatch) (*model.SettingsView, error) {
	updates := map[string]any{}

	if patch.AIAPIKey != nil {
		key := strings.TrimSpace(*patch.AIAPIKey)
		if key == "" {
			updates["ai_api_key"] = nil
		} else {
			updates["ai_api_key"] = key
		}
	}
	if patch.AIDepth != nil {
		if !validDepth(*patch.AIDepth) {
			return nil, ErrInvalidDepth
		}
		updates["ai_depth"] = *patch.AIDepth
	}
	if patch.Theme != nil {
		if !validTheme(*patch.Theme) {
			return nil, ErrInvalidTheme
		}
		updates["theme"] = *patch.Theme
	}
	if patch.DiscreteMode != nil {
		updates["discrete_mode"] = *patch.DiscreteMode
	}
	if patch.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *patch.NotificationsEnabled
	}
	if patch.NotificationTime != nil {
		updates["notification_time"] = *patch.NotificationTime
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	settings, err := s.SettingsRepo.UpdateSettings(ctx, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	view := settings.View()
	return &view, nil
}

// TestAPIKey probes apiKey, or the stored key when apiKey is empty.
// ErrAPIKeyMissing is returned when there is nothing to test.
func (s *SettingsService) TestAPIKey(ctx context.Context, userID uint, apiKey string) (*APIKeyTest, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get settings: %w", err)
		}
		if !settings.HasAPIKey() {
			return nil, ErrAPIKeyMissing
		}
		key = *settings.AIAPIKey
	}

	err := s.Tester.Ping(ctx, key)
	if err == nil || errors.Is(err, ai.ErrEmptyCompletion) {
		return &APIKeyTest{Valid: true, Message: "API key is valid"}, nil
	}

	s.logger.Info().Err(err).Uint("user_id", userID).Msg("API key test failed")
	var statusErr *ai.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return &APIKeyTest{Valid: false, Error: statusErr.Message}, nil
	}
	return &APIKeyTest{Valid: false, Error: "invalid API key"}, nil
}

func (s *SettingsService) DeleteAPIKey(ctx context.Context, userID uint) error {
	if _, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID); err != nil {
		return fmt.Errorf("get settings: %w", err)
	}
	if err := s.SettingsRepo.ClearAPIKey(ctx, userID); err != nil {
		return fmt.Errorf("clear api key: %w", err)
	}
	return nil
}
