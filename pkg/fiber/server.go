package fiber

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	swaggoFiber "github.com/swaggo/fiber-swagger"

	_ "github.com/gousero-sin/LifeLogAi/docs"
	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/handler"
	"github.com/gousero-sin/LifeLogAi/internal/middleware"
)

// NewFiberServer creates and configures a new Fiber application.
func NewFiberServer(cfg *config.AppConfig, h *handler.LifeLogHandler, limiter *middleware.RateLimiter, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           cfg.ServerReadTimeout,
		WriteTimeout:          cfg.ServerWriteTimeout,
		IdleTimeout:           cfg.ServerIdleTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(middleware.FiberRecovery(logger))
	app.Use(middleware.FiberRequestID())
	app.Use(middleware.FiberLogger(logger))
	app.Use(middleware.FiberCORS(cfg))
	app.Use(middleware.MetricsMiddlewareFiber())

	app.Get("/swagger/*", swaggoFiber.WrapHandler)
	app.Get("/metrics", middleware.MetricsHandlerFiber())

	api := app.Group("/api")
	if limiter != nil {
		api.Use(limiter.Fiber())
	}
	api.Get("/health", h.Health.CheckHealthFiber)

	requireAuth := middleware.RequireAuthFiber(h.Authenticator)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Auth.RegisterFiber)
	authRoutes.Post("/login", h.Auth.LoginFiber)
	authRoutes.Get("/me", requireAuth, h.Auth.MeFiber)

	api.Get("/bootstrap", requireAuth, h.Dashboard.BootstrapFiber)

	entries := api.Group("/entries", requireAuth)
	entries.Get("/", h.Entries.ListFiber)
	entries.Post("/", h.Entries.SaveFiber)
	entries.Get("/date/:date", h.Entries.GetByDateFiber)
	entries.Get("/:id", h.Entries.GetFiber)
	entries.Post("/:id/insights", h.Entries.GenerateInsightsFiber)
	entries.Patch("/:id/favorite", h.Entries.ToggleFavoriteFiber)
	entries.Delete("/:id", h.Entries.DeleteFiber)

	tags := api.Group("/tags", requireAuth)
	tags.Get("/", h.Tags.ListFiber)
	tags.Post("/", h.Tags.CreateFiber)
	tags.Get("/stats", h.Tags.StatsFiber)
	tags.Patch("/:id", h.Tags.UpdateFiber)
	tags.Delete("/:id", h.Tags.DeleteFiber)

	settings := api.Group("/settings", requireAuth)
	settings.Get("/", h.Settings.GetFiber)
	settings.Patch("/", h.Settings.UpdateFiber)
	settings.Post("/test-api-key", h.Settings.TestAPIKeyFiber)
	settings.Delete("/api-key", h.Settings.DeleteAPIKeyFiber)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/stats", h.Dashboard.StatsFiber)
	dashboard.Get("/weekly-summary", h.Dashboard.WeeklySummaryFiber)
	dashboard.Post("/search", h.Dashboard.SearchFiber)
	dashboard.Get("/heatmap", h.Dashboard.HeatmapFiber)
	dashboard.Get("/emotions", h.Dashboard.EmotionsFiber)

	return app
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", ctx.Path()).Msg("Fiber error")
		}

		return ctx.Status(code).JSON(handler.ErrorResponse{Error: message})
	}
}

// StartFiberServer starts the Fiber server. It blocks until the app is shut down.
func StartFiberServer(app *fiber.App, cfg *config.AppConfig, logger zerolog.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
	logger.Info().Str("addr", addr).Msg("Starting Fiber server")
	return app.Listen(addr)
}
