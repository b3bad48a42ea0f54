package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
	"github.com/gousero-sin/LifeLogAi/pkg/logger"
)

type fakeGenerator struct {
	mu      sync.Mutex
	daily   ai.DailyInsight
	weekly  ai.WeeklySummary
	search  ai.SearchResult
	keys    []string
	depths  []string
	context []ai.ContextData
	entries [][]model.Entry
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		daily:  ai.DailyInsight{Summary: "S", Insights: []string{"a"}, TomorrowPlan: []string{"b"}, Emotions: []string{"calm", "joy"}},
		weekly: ai.WeeklySummary{Title: "AI week", Narrative: "N", Highlights: []string{}, Lowlights: []string{}, Suggestions: []string{}},
		search: ai.SearchResult{Results: []ai.SearchHit{}, Summary: "nothing"},
	}
}

func (f *fakeGenerator) record(key, depth string, cd ai.ContextData, entries []model.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.depths = append(f.depths, depth)
	f.context = append(f.context, cd)
	f.entries = append(f.entries, entries)
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

func (f *fakeGenerator) DailyInsight(_ context.Context, apiKey, depth string, entry model.Entry, cd ai.ContextData) ai.DailyInsight {
	f.record(apiKey, depth, cd, []model.Entry{entry})
	return f.daily
}

func (f *fakeGenerator) WeeklySummary(_ context.Context, apiKey, depth string, entries []model.Entry, cd ai.ContextData) ai.WeeklySummary {
	f.record(apiKey, depth, cd, entries)
	return f.weekly
}

func (f *fakeGenerator) Search(_ context.Context, apiKey, _ string, entries []model.Entry) ai.SearchResult {
	f.record(apiKey, "", ai.ContextData{}, entries)
	return f.search
}

type testEnv struct {
	db        *gorm.DB
	user      model.User
	gen       *fakeGenerator
	stats     *StatsCache
	entries   *EntryService
	dashboard *DashboardService
	settings  repository.SettingsRepositoryInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	env := &testEnv{
		db:       db,
		user:     testutil.CreateUser(t, db, "me@test.dev"),
		gen:      newFakeGenerator(),
		stats:    NewStatsCache(time.Minute),
		settings: repository.NewSettingsRepository(db),
	}
	clock := func() time.Time { return fixedToday }

	env.entries = NewEntryService(EntryServiceDeps{
		EntryRepo:    repository.NewEntryRepository(db),
		TagRepo:      repository.NewTagRepository(db),
		InsightRepo:  repository.NewInsightRepository(db),
		SettingsRepo: env.settings,
		Generator:    env.gen,
		Stats:        env.stats,
		AutoInsights: true,
		Logger:       logger.Nop(),
	}).(*EntryService)
	env.entries.now = clock

	env.dashboard = NewDashboardService(DashboardServiceDeps{
		EntryRepo:    repository.NewEntryRepository(db),
		TagRepo:      repository.NewTagRepository(db),
		InsightRepo:  repository.NewInsightRepository(db),
		SettingsRepo: env.settings,
		Generator:    env.gen,
		Stats:        env.stats,
		Logger:       logger.Nop(),
	}).(*DashboardService)
	env.dashboard.now = clock

	return env
}

func (e *testEnv) setAPIKey(t *testing.T, key string) {
	t.Helper()
	_, err := e.settings.UpdateSettings(context.Background(), e.user.ID, map[string]any{"ai_api_key": key, "ai_depth": model.DepthDeep})
	require.NoError(t, err)
}

func (e *testEnv) save(t *testing.T, in EntryInput) *model.Entry {
	t.Helper()
	off := false
	if in.GenerateInsights == nil {
		in.GenerateInsights = &off
	}
	entry, _, err := e.entries.SaveEntry(context.Background(), e.user.ID, in)
	require.NoError(t, err)
	return entry
}
