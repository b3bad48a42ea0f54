// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/pkg/database"
)

// NewTestDB opens a migrated in-memory SQLite database with the system
// tags seeded. It is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateDB(db))
	return db
}

// CreateUser inserts a user with default settings.
func CreateUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{Email: email, Name: "Test", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&model.UserSettings{
		UserID:           user.ID,
		AIDepth:          model.DepthMedium,
		Theme:            model.ThemeSystem,
		NotificationTime: "21:00",
	}).Error)
	return user
}

// SystemTagID returns the id of the seeded system tag called name.
func SystemTagID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var tag model.Tag
	require.NoError(t, db.Where("user_id IS NULL AND name = ?", name).First(&tag).Error)
	return tag.ID
}

// Today returns the current UTC calendar day shifted by offset days.
func Today(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(model.DateLayout)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// StrPtr returns a pointer to v.
func StrPtr(v string) *string { return &v }
