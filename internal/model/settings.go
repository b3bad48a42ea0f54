package model

import "time"

// Analysis depths accepted by the insight builder.
const (
	DepthShallow = "shallow"
	DepthMedium  = "medium"
	DepthDeep    = "deep"
)

// Display themes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// UserSettings holds per-user preferences. The API key never leaves the
// server in full; see SettingsView.
type UserSettings struct {
	ID                   uint      `json:"id" gorm:"primarykey"`
	UserID               uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	AIAPIKey             *string   `json:"-" gorm:"column:ai_api_key"`
	AIDepth              string    `json:"ai_depth" gorm:"not null;default:'medium'"`
	Theme                string    `json:"theme" gorm:"not null;default:'system'"`
	DiscreteMode         bool      `json:"discrete_mode" gorm:"not null;default:false"`
	NotificationsEnabled bool      `json:"notifications_enabled" gorm:"not null;default:false"`
	NotificationTime     string    `json:"notification_time" gorm:"not null;default:'21:00'"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// HasAPIKey reports whether a non-empty API key is stored.
func (s *UserSettings) HasAPIKey() bool {
	return s != nil && s.AIAPIKey != nil && *s.AIAPIKey != ""
}

// SettingsView is the client-facing representation of UserSettings.
type SettingsView struct {
	UserSettings
	AIAPIKey  *string `json:"ai_api_key"`
	HasAPIKey bool    `json:"has_api_key"`
}

// View masks the API key down to its last four characters.
func (s *UserSettings) View() SettingsView {
	v := SettingsView{UserSettings: *s, HasAPIKey: s.HasAPIKey()}
	if v.HasAPIKey {
		key := *s.AIAPIKey
		if len(key) > 4 {
			key = key[len(key)-4:]
		}
		masked := "sk-..." + key
		v.AIAPIKey = &masked
	}
	return v
}
