package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
)

func TestInsightRepository_InsightsAndEmotions(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	entries := NewEntryRepository(db)
	repo := NewInsightRepository(db)
	ctx := context.Background()

	entry := &model.Entry{UserID: user.ID, EntryDate: "2026-10-10"}
	_, err := entries.UpsertEntry(ctx, entry, nil)
	require.NoError(t, err)

	for _, summary := range []string{`{"summary":"first"}`, `{"summary":"second"}`} {
		require.NoError(t, repo.CreateInsight(ctx, &model.Insight{
			UserID:      user.ID,
			EntryID:     &entry.ID,
			InsightType: model.InsightDailySummary,
			Content:     datatypes.JSON(summary),
		}))
	}

	insights, err := repo.GetInsightsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.JSONEq(t, `{"summary":"second"}`, string(insights[0].Content))

	require.NoError(t, repo.ReplaceEmotions(ctx, entry.ID, []string{"joy", "calm"}))
	require.NoError(t, repo.ReplaceEmotions(ctx, entry.ID, []string{"calm"}))
	emotions, err := repo.GetEmotionsForEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, emotions, 1)
	assert.Equal(t, "calm", emotions[0].Emotion)
	assert.Equal(t, 5, emotions[0].Intensity)
}

func TestInsightRepository_EmotionSummary(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	entries := NewEntryRepository(db)
	repo := NewInsightRepository(db)
	ctx := context.Background()

	for date, emotions := range map[string][]string{
		"2026-09-01": {"anger"},
		"2026-10-01": {"joy", "calm"},
		"2026-10-02": {"joy"},
	} {
		e := &model.Entry{UserID: user.ID, EntryDate: date}
		_, err := entries.UpsertEntry(ctx, e, nil)
		require.NoError(t, err)
		require.NoError(t, repo.ReplaceEmotions(ctx, e.ID, emotions))
	}

	summary, err := repo.GetEmotionSummary(ctx, user.ID, "2026-09-15")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "joy", summary[0].Emotion)
	assert.Equal(t, 2, summary[0].Count)
	assert.InDelta(t, 5.0, summary[0].AvgIntensity, 0.001)
	assert.Equal(t, "calm", summary[1].Emotion)

	empty, err := repo.GetEmotionSummary(ctx, user.ID+1, "2000-01-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
