package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggoFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gousero-sin/LifeLogAi/docs"
	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/handler"
	"github.com/gousero-sin/LifeLogAi/internal/middleware"
)

// NewGinServer creates and configures a new Gin application.
func NewGinServer(cfg *config.AppConfig, h *handler.LifeLogHandler, limiter *middleware.RateLimiter, logger zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppEnv == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.GinRecovery(logger))
	router.Use(middleware.GinRequestID())
	router.Use(middleware.GinLogger(logger))
	router.Use(middleware.GinCORS(cfg))
	router.Use(middleware.MetricsMiddlewareGin())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggoFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", middleware.MetricsHandlerGin())

	api := router.Group("/api")
	if limiter != nil {
		api.Use(limiter.Gin())
	}
	api.GET("/health", h.Health.CheckHealthGin)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.RegisterGin)
		authRoutes.POST("/login", h.Auth.LoginGin)
		authRoutes.GET("/me", middleware.RequireAuthGin(h.Authenticator), h.Auth.MeGin)
	}

	protected := api.Group("", middleware.RequireAuthGin(h.Authenticator))
	protected.GET("/bootstrap", h.Dashboard.BootstrapGin)

	entries := protected.Group("/entries")
	{
		entries.GET("", h.Entries.ListGin)
		entries.POST("", h.Entries.SaveGin)
		entries.GET("/date/:date", h.Entries.GetByDateGin)
		entries.GET("/:id", h.Entries.GetGin)
		entries.POST("/:id/insights", h.Entries.GenerateInsightsGin)
		entries.PATCH("/:id/favorite", h.Entries.ToggleFavoriteGin)
		entries.DELETE("/:id", h.Entries.DeleteGin)
	}

	tags := protected.Group("/tags")
	{
		tags.GET("", h.Tags.ListGin)
		tags.POST("", h.Tags.CreateGin)
		tags.GET("/stats", h.Tags.StatsGin)
		tags.PATCH("/:id", h.Tags.UpdateGin)
		tags.DELETE("/:id", h.Tags.DeleteGin)
	}

	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.GetGin)
		settings.PATCH("", h.Settings.UpdateGin)
		settings.POST("/test-api-key", h.Settings.TestAPIKeyGin)
		settings.DELETE("/api-key", h.Settings.DeleteAPIKeyGin)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Dashboard.StatsGin)
		dashboard.GET("/weekly-summary", h.Dashboard.WeeklySummaryGin)
		dashboard.POST("/search", h.Dashboard.SearchGin)
		dashboard.GET("/heatmap", h.Dashboard.HeatmapGin)
		dashboard.GET("/emotions", h.Dashboard.EmotionsGin)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "route not found"})
	})

	return router
}

// StartGinServer starts the Gin server in the background. Listen errors
// other than a clean shutdown are sent on the returned channel.
func StartGinServer(router *gin.Engine, cfg *config.AppConfig, logger zerolog.Logger) (*http.Server, <-chan error) {
	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	logger.Info().Str("addr", addr).Msg("Starting GIN server")

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return srv, errCh
}

// ShutdownGinServer gracefully shuts down the Gin server.
func ShutdownGinServer(srv *http.Server, timeout time.Duration, logger zerolog.Logger) error {
	logger.Info().Msg("Shutting down GIN server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("GIN server exiting")
	return nil
}
