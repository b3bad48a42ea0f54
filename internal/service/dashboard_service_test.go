package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
)

func TestDashboardService_GetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	work := testutil.SystemTagID(t, env.db, "work")

	env.save(t, EntryInput{EntryDate: "2026-10-14", Mood: testutil.IntPtr(4), TagIDs: []uint{work}})
	env.save(t, EntryInput{EntryDate: "2026-10-13", Mood: testutil.IntPtr(8), SleepHours: testutil.FloatPtr(7), TagIDs: []uint{work}})
	env.save(t, EntryInput{EntryDate: "2026-10-12", Stress: testutil.IntPtr(2)})
	env.save(t, EntryInput{EntryDate: "2026-10-07", Mood: testutil.IntPtr(10)})
	env.save(t, EntryInput{EntryDate: "2026-10-01", Mood: testutil.IntPtr(1)})

	stats, err := env.dashboard.GetStats(ctx, env.user.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalEntries, "window is inclusive of today-period")
	assert.Equal(t, 7.3, stats.AvgMood)
	assert.Equal(t, 7.0, stats.AvgSleep)
	assert.Equal(t, 2.0, stats.AvgStress)
	assert.Zero(t, stats.AvgEnergy)
	assert.Equal(t, 3, stats.CurrentStreak)
	require.Len(t, stats.TopTags, 1)
	assert.Equal(t, model.TagCount{Name: "work", Color: "#4a4a4a", Count: 2}, stats.TopTags[0])
	assert.Equal(t, []model.TrendPoint{
		{Date: "2026-10-07", Value: 10},
		{Date: "2026-10-13", Value: 8},
		{Date: "2026-10-14", Value: 4},
	}, stats.MoodTrend)
}

func TestDashboardService_GetStatsEmpty(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.dashboard.GetStats(context.Background(), env.user.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.AvgMood)
	assert.NotNil(t, stats.TopTags)
	assert.NotNil(t, stats.MoodTrend)
	assert.NotNil(t, stats.SleepTrend)
}

func TestDashboardService_GetStatsHugePeriod(t *testing.T) {
	env := newTestEnv(t)
	env.save(t, EntryInput{EntryDate: "2026-10-14", Mood: testutil.IntPtr(5)})

	stats, err := env.dashboard.GetStats(context.Background(), env.user.ID, ParsePeriod("9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 5.0, stats.AvgMood)
}

func TestDashboardService_StatsCacheInvalidatedOnWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.save(t, EntryInput{EntryDate: "2026-10-14", Mood: testutil.IntPtr(4)})
	first, err := env.dashboard.GetStats(ctx, env.user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalEntries)

	_, ok := env.stats.Get(env.user.ID, 7, "2026-10-14")
	assert.True(t, ok)

	entry := env.save(t, EntryInput{EntryDate: "2026-10-13", Mood: testutil.IntPtr(6)})
	_, ok = env.stats.Get(env.user.ID, 7, "2026-10-14")
	assert.False(t, ok)

	second, err := env.dashboard.GetStats(ctx, env.user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, second.TotalEntries)

	require.NoError(t, env.entries.DeleteEntry(ctx, env.user.ID, entry.ID))
	third, err := env.dashboard.GetStats(ctx, env.user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, third.TotalEntries)
}

func TestDashboardService_WeeklySummary(t *testing.T) {
	ctx := context.Background()

	t.Run("no entries", func(t *testing.T) {
		env := newTestEnv(t)
		res, err := env.dashboard.GetWeeklySummary(ctx, env.user.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, DatePeriod{Start: "2026-10-11", End: "2026-10-17"}, res.Period)
		assert.Zero(t, res.EntriesCount)
		assert.Equal(t, emptyWeekSummary(), res.Summary)
		assert.Zero(t, env.gen.calls())
	})

	t.Run("local summary without a key", func(t *testing.T) {
		env := newTestEnv(t)
		e := env.save(t, EntryInput{EntryDate: "2026-10-12", Mood: testutil.IntPtr(6), Highlight: testutil.StrPtr("met a friend")})
		_, err := env.entries.ToggleFavorite(ctx, env.user.ID, e.ID)
		require.NoError(t, err)
		fav := env.save(t, EntryInput{EntryDate: "2026-10-13", Mood: testutil.IntPtr(9)})
		_, err = env.entries.ToggleFavorite(ctx, env.user.ID, fav.ID)
		require.NoError(t, err)
		env.save(t, EntryInput{EntryDate: "2026-10-05", Mood: testutil.IntPtr(1)})

		res, err := env.dashboard.GetWeeklySummary(ctx, env.user.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, res.EntriesCount)
		assert.Equal(t, "A week with 2 entries", res.Summary.Title)
		assert.Contains(t, res.Summary.Narrative, "7.5/10")
		assert.Equal(t, []string{"met a friend", "Day 2026-10-13"}, res.Summary.Highlights)
		assert.Zero(t, env.gen.calls())
	})

	t.Run("AI summary from public entries", func(t *testing.T) {
		env := newTestEnv(t)
		env.setAPIKey(t, "sk-live-9999")
		env.save(t, EntryInput{EntryDate: "2026-09-28", Mood: testutil.IntPtr(6)})
		env.save(t, EntryInput{EntryDate: "2026-09-29", Mood: testutil.IntPtr(2), IsPrivate: true})

		res, err := env.dashboard.GetWeeklySummary(ctx, env.user.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, DatePeriod{Start: "2026-09-27", End: "2026-10-03"}, res.Period)
		assert.Equal(t, 2, res.EntriesCount)
		assert.Equal(t, "AI week", res.Summary.Title)
		require.Equal(t, 1, env.gen.calls())
		require.Len(t, env.gen.entries[0], 1)
		assert.Equal(t, 6.0, env.gen.context[0].AvgMood)
	})
}

func TestDashboardService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.dashboard.Search(ctx, env.user.ID, "   ", 0)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("text search without a key", func(t *testing.T) {
		env := newTestEnv(t)
		env.save(t, EntryInput{EntryDate: "2026-10-10", Content: testutil.StrPtr("Long run by the river")})
		env.save(t, EntryInput{EntryDate: "2026-10-11", Content: testutil.StrPtr("office")})

		res, err := env.dashboard.Search(ctx, env.user.ID, "river", 0)
		require.NoError(t, err)
		assert.Equal(t, SearchMethodText, res.Method)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "2026-10-10", res.Results[0].EntryDate)
		assert.Zero(t, env.gen.calls())
	})

	t.Run("semantic search joins hits back to entries", func(t *testing.T) {
		env := newTestEnv(t)
		env.setAPIKey(t, "sk-live-9999")
		a := env.save(t, EntryInput{EntryDate: "2026-10-10", Content: testutil.StrPtr("river")})
		b := env.save(t, EntryInput{EntryDate: "2026-10-11", Content: testutil.StrPtr("mountain")})
		env.save(t, EntryInput{EntryDate: "2026-10-12", Content: testutil.StrPtr("secret"), IsPrivate: true})

		env.gen.search = ai.SearchResult{
			Results: []ai.SearchHit{{EntryID: b.ID, Relevance: "hiking"}, {EntryID: 999, Relevance: "ghost"}, {EntryID: a.ID, Relevance: "water"}},
			Summary: "outdoors",
		}
		res, err := env.dashboard.Search(ctx, env.user.ID, "nature", 1)
		require.NoError(t, err)
		assert.Equal(t, SearchMethodSemantic, res.Method)
		assert.Equal(t, "outdoors", res.Summary)
		require.Len(t, res.Results, 1)
		assert.Equal(t, b.ID, res.Results[0].ID)
		assert.Equal(t, "hiking", res.Results[0].Relevance)
		assert.Len(t, env.gen.entries[0], 2, "private entries are never sent")
	})
}

func TestDashboardService_HeatmapAndEmotions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.setAPIKey(t, "sk-live-9999")

	env.save(t, EntryInput{EntryDate: "2026-01-15", Mood: testutil.IntPtr(3)})
	e := env.save(t, EntryInput{EntryDate: "2026-10-02", Mood: testutil.IntPtr(7), Energy: testutil.IntPtr(6)})
	_, err := env.entries.GenerateInsights(ctx, env.user.ID, e.ID)
	require.NoError(t, err)

	year, err := env.dashboard.GetHeatmap(ctx, env.user.ID, 2026, nil)
	require.NoError(t, err)
	assert.Len(t, year.Heatmap, 2)
	assert.Nil(t, year.Month)

	october := 10
	month, err := env.dashboard.GetHeatmap(ctx, env.user.ID, 2026, &october)
	require.NoError(t, err)
	require.Len(t, month.Heatmap, 1)
	assert.Equal(t, "2026-10-02", month.Heatmap[0].Date)

	bad := 13
	_, err = env.dashboard.GetHeatmap(ctx, env.user.ID, 2026, &bad)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	emotions, err := env.dashboard.GetEmotions(ctx, env.user.ID, 30)
	require.NoError(t, err)
	require.Len(t, emotions, 2)
	assert.Equal(t, 1, emotions[0].Count)
	assert.Equal(t, 5.0, emotions[0].AvgIntensity)

	none, err := env.dashboard.GetEmotions(ctx, env.user.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}
