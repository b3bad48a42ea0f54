// Package apitest assembles a fully wired handler over an in-memory
// database for HTTP-level tests.
package apitest

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/auth"
	"github.com/gousero-sin/LifeLogAi/internal/config"
	"github.com/gousero-sin/LifeLogAi/internal/handler"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
	"github.com/gousero-sin/LifeLogAi/internal/service"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
	"github.com/gousero-sin/LifeLogAi/pkg/logger"
)

// BadKey is rejected by the KeyTester.
const BadKey = "sk-bad"

// Generator returns canned AI output and counts calls.
type Generator struct {
	mu    sync.Mutex
	Calls int
}

func (g *Generator) inc() {
	g.mu.Lock()
	g.Calls++
	g.mu.Unlock()
}

func (g *Generator) DailyInsight(context.Context, string, string, model.Entry, ai.ContextData) ai.DailyInsight {
	g.inc()
	return ai.DailyInsight{
		Summary:      "A steady day.",
		Insights:     []string{"Sleep tracks mood."},
		TomorrowPlan: []string{"Walk after lunch."},
		Emotions:     []string{"calm"},
	}
}

func (g *Generator) WeeklySummary(context.Context, string, string, []model.Entry, ai.ContextData) ai.WeeklySummary {
	g.inc()
	return ai.WeeklySummary{Title: "Good week", Narrative: "Mostly calm.", Highlights: []string{}, Lowlights: []string{}, Suggestions: []string{}}
}

func (g *Generator) Search(_ context.Context, _, _ string, entries []model.Entry) ai.SearchResult {
	g.inc()
	res := ai.SearchResult{Results: []ai.SearchHit{}, Summary: "Found it."}
	if len(entries) > 0 {
		res.Results = append(res.Results, ai.SearchHit{EntryID: entries[0].ID, Relevance: "mentions the query"})
	}
	return res
}

// KeyTester accepts every key except BadKey.
type KeyTester struct{}

func (KeyTester) Ping(_ context.Context, apiKey string) error {
	if apiKey == BadKey {
		return &ai.StatusError{StatusCode: 401, Message: "invalid api key"}
	}
	return nil
}

// Env is a wired application over a fresh database.
type Env struct {
	Config    *config.AppConfig
	DB        *gorm.DB
	Handler   *handler.LifeLogHandler
	Generator *Generator
}

// Config returns the configuration used by New.
func Config() *config.AppConfig {
	return &config.AppConfig{
		AppName:            "LifeLog",
		AppVersion:         "test",
		AppEnv:             "test",
		CorsAllowedOrigins: []string{"*"},
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
		CacheTTLExpiration: time.Minute,
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		AutoInsights:       true,
	}
}

// New builds the application the way the server binary does, with the AI
// replaced by canned responses.
func New(t *testing.T) *Env {
	t.Helper()
	cfg := Config()
	db := testutil.NewTestDB(t)
	log := logger.Nop()
	gen := &Generator{}

	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	tagRepo := repository.NewTagRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	stats := service.NewStatsCache(cfg.CacheTTLExpiration)

	authSvc := service.NewAuthService(userRepo, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL), log)
	settingsSvc := service.NewSettingsService(settingsRepo, KeyTester{}, log)
	tagSvc := service.NewTagService(tagRepo, stats)
	entrySvc := service.NewEntryService(service.EntryServiceDeps{
		EntryRepo: entryRepo, TagRepo: tagRepo, InsightRepo: insightRepo, SettingsRepo: settingsRepo,
		Generator: gen, Stats: stats, AutoInsights: cfg.AutoInsights, Logger: log,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceDeps{
		EntryRepo: entryRepo, TagRepo: tagRepo, InsightRepo: insightRepo, SettingsRepo: settingsRepo,
		Generator: gen, Stats: stats, Logger: log,
	})

	h := handler.NewLifeLogHandler(cfg, db, handler.Services{
		Auth:      authSvc,
		Entries:   entrySvc,
		Tags:      tagSvc,
		Settings:  settingsSvc,
		Dashboard: dashboardSvc,
		Bootstrap: service.NewBootstrapService(authSvc, tagSvc, settingsSvc, dashboardSvc, entrySvc),
	}, log)

	return &Env{Config: cfg, DB: db, Handler: h, Generator: gen}
}
