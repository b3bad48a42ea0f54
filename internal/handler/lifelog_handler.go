package handler

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth      service.AuthServiceInterface
	Entries   service.EntryServiceInterface
	Tags      service.TagServiceInterface
	Settings  service.SettingsServiceInterface
	Dashboard service.DashboardServiceInterface
	Bootstrap service.BootstrapServiceInterface
}

// LifeLogHandler encapsulates all handlers of the application. Both server
// packages register their routes from it.
type LifeLogHandler struct {
	Auth      *AuthHandler
	Entries   *EntryHandler
	Tags      *TagHandler
	Settings  *SettingsHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler

	// Authenticator backs the bearer middleware.
	Authenticator service.AuthServiceInterface
}

// NewLifeLogHandler creates a new LifeLogHandler.
func NewLifeLogHandler(cfg *config.AppConfig, db *gorm.DB, svc Services, logger zerolog.Logger) *LifeLogHandler {
	logger = logger.With().Str("component", "handler").Logger()
	return &LifeLogHandler{
		Auth:          NewAuthHandler(svc.Auth, logger),
		Entries:       NewEntryHandler(svc.Entries, logger),
		Tags:          NewTagHandler(svc.Tags, logger),
		Settings:      NewSettingsHandler(svc.Settings, logger),
		Dashboard:     NewDashboardHandler(svc.Dashboard, svc.Bootstrap, logger),
		Health:        NewHealthHandler(db, cfg.AppName, cfg.AppVersion),
		Authenticator: svc.Auth,
	}
}
