package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/docs"
	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/auth"
	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/handler"
	"github.com/gousero-sin/LifeLogAi/internal/middleware"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
	"github.com/gousero-sin/LifeLogAi/internal/service"
	"github.com/gousero-sin/LifeLogAi/pkg/database"
	fiberserver "github.com/gousero-sin/LifeLogAi/pkg/fiber"
	ginserver "github.com/gousero-sin/LifeLogAi/pkg/gin"
	"github.com/gousero-sin/LifeLogAi/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// @title LifeLog API
// @version 1.0
// @description Personal journaling backend with daily metrics, tags, dashboards and AI insights.

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "lifelog",
		Short:         "LifeLog journaling API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configFile)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "config.env", "env file to load")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed the system tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(configFile)
		},
	})
	return root
}

func setup(configFile string) (*config.AppConfig, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := database.MigrateDB(db); err != nil {
		_ = database.CloseDB()
		return nil, log, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, log, db, nil
}

func runMigrate(configFile string) error {
	_, log, _, err := setup(configFile)
	if err != nil {
		log.Error().Err(err).Msg("Migration failed")
		return err
	}
	defer database.CloseDB()
	log.Info().Msg("Database migrated")
	return nil
}

// newHandler wires repositories, services and handlers.
func newHandler(cfg *config.AppConfig, db *gorm.DB, log zerolog.Logger) *handler.LifeLogHandler {
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	tagRepo := repository.NewTagRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	aiClient := ai.NewClient(ai.ClientConfig{
		BaseURL:      cfg.AIBaseURL,
		Model:        cfg.AIModel,
		Timeout:      cfg.AITimeout,
		MaxRetries:   cfg.AIMaxRetries,
		RetryBackoff: cfg.AIRetryBackoff,
	}, log)
	builder := ai.NewBuilder(aiClient, log)
	statsCache := service.NewStatsCache(cfg.CacheTTLExpiration)

	authSvc := service.NewAuthService(userRepo, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL), log)
	settingsSvc := service.NewSettingsService(settingsRepo, aiClient, log)
	tagSvc := service.NewTagService(tagRepo, statsCache)
	entrySvc := service.NewEntryService(service.EntryServiceDeps{
		EntryRepo:    entryRepo,
		TagRepo:      tagRepo,
		InsightRepo:  insightRepo,
		SettingsRepo: settingsRepo,
		Generator:    builder,
		Stats:        statsCache,
		AutoInsights: cfg.AutoInsights,
		Logger:       log,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceDeps{
		EntryRepo:    entryRepo,
		TagRepo:      tagRepo,
		InsightRepo:  insightRepo,
		SettingsRepo: settingsRepo,
		Generator:    builder,
		Stats:        statsCache,
		Logger:       log,
	})

	return handler.NewLifeLogHandler(cfg, db, handler.Services{
		Auth:      authSvc,
		Entries:   entrySvc,
		Tags:      tagSvc,
		Settings:  settingsSvc,
		Dashboard: dashboardSvc,
		Bootstrap: service.NewBootstrapService(authSvc, tagSvc, settingsSvc, dashboardSvc, entrySvc),
	}, log)
}

func runServe(configFile string) error {
	cfg, log, db, err := setup(configFile)
	if err != nil {
		log.Error().Err(err).Msg("Startup failed")
		return err
	}
	defer database.CloseDB()

	docs.SwaggerInfo.Host = cfg.SwaggerHost
	docs.SwaggerInfo.BasePath = cfg.SwaggerBasePath
	docs.SwaggerInfo.Schemes = cfg.SwaggerSchemes
	docs.SwaggerInfo.Title = cfg.AppName + " API"
	docs.SwaggerInfo.Version = cfg.AppVersion

	h := newHandler(cfg, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	switch cfg.ServerFramework {
	case "fiber":
		app := fiberserver.NewFiberServer(cfg, h, limiter, log)
		errCh := make(chan error, 1)
		go func() {
			errCh <- fiberserver.StartFiberServer(app, cfg, log)
		}()
		select {
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("Fiber server failed")
				return err
			}
		case <-ctx.Done():
			log.Info().Msg("Shutting down Fiber server...")
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				log.Error().Err(err).Msg("Error during Fiber server shutdown")
			}
		}
	default:
		engine := ginserver.NewGinServer(cfg, h, limiter, log)
		srv, errCh := ginserver.StartGinServer(engine, cfg, log)
		select {
		case err := <-errCh:
			if err != nil {
				log.Error().Err(err).Msg("GIN server failed")
				return err
			}
		case <-ctx.Done():
			if err := ginserver.ShutdownGinServer(srv, shutdownTimeout, log); err != nil {
				log.Error().Err(err).Msg("Error during GIN server shutdown")
			}
		}
	}

	log.Info().Msg("Server gracefully stopped.")
	return nil
}
