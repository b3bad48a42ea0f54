package database

import (
	"errors"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/model"
)

var DB *gorm.DB

// ConnectDB opens the database selected by cfg.DBDriver.
func ConnectDB(cfg *config.AppConfig, zl zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.AppEnv == "development" {
		logLevel = logger.Info
	}

	gormLogger := logger.New(
		stdlog.New(zl.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSqlitePath)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSslMode,
			cfg.DBTimezone,
		)
		dialector = postgres.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	zl.Info().Str("driver", cfg.DBDriver).Msg("Database connection established")
	return DB, nil
}

// Models lists every table managed by MigrateDB.
func Models() []any {
	return []any{
		&model.User{},
		&model.UserSettings{},
		&model.Entry{},
		&model.Tag{},
		&model.EntryTag{},
		&model.EntryEmotion{},
		&model.Insight{},
	}
}

// MigrateDB runs GORM auto-migrations and seeds the system tags.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("database connection is not initialized")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := SeedSystemTags(db); err != nil {
		return fmt.Errorf("failed to seed system tags: %w", err)
	}
	return nil
}

var systemTags = []model.Tag{
	{Name: "work", Color: "#4a4a4a", Icon: "briefcase"},
	{Name: "exercise", Color: "#5d8a66", Icon: "dumbbell"},
	{Name: "family", Color: "#a83f39", Icon: "house"},
	{Name: "friends", Color: "#d4a373", Icon: "users"},
	{Name: "health", Color: "#2a9d8f", Icon: "heart-pulse"},
	{Name: "reading", Color: "#6d597a", Icon: "book"},
	{Name: "meditation", Color: "#b0c4de", Icon: "spa"},
	{Name: "study", Color: "#457b9d", Icon: "graduation-cap"},
	{Name: "travel", Color: "#e9c46a", Icon: "plane"},
	{Name: "rest", Color: "#8d99ae", Icon: "bed"},
}

// SeedSystemTags inserts the built-in tags that are not present yet.
func SeedSystemTags(db *gorm.DB) error {
	for _, t := range systemTags {
		var count int64
		if err := db.Model(&model.Tag{}).
			Where("user_id IS NULL AND LOWER(name) = ?", t.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		tag := t
		tag.IsSystem = true
		if err := db.Create(&tag).Error; err != nil {
			return err
		}
	}
	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PingDB checks the database connection.
func PingDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("database connection is not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB for ping: %w", err)
	}
	return sqlDB.Ping()
}
