package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
)

func TestEntryRepository_UpsertIsIdempotentPerDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	repo := NewEntryRepository(db)
	ctx := context.Background()

	created, err := repo.UpsertEntry(ctx, &model.Entry{UserID: user.ID, EntryDate: "2026-10-01", Mood: testutil.IntPtr(3), Energy: testutil.IntPtr(4)}, nil)
	require.NoError(t, err)
	assert.True(t, created)

	first, err := repo.GetEntryByDate(ctx, user.ID, "2026-10-01")
	require.NoError(t, err)
	_, err = repo.ToggleFavorite(ctx, user.ID, first.ID)
	require.NoError(t, err)

	created, err = repo.UpsertEntry(ctx, &model.Entry{UserID: user.ID, EntryDate: "2026-10-01", Mood: testutil.IntPtr(9)}, nil)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&model.Entry{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetEntryByDate(ctx, user.ID, "2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	require.NotNil(t, got.Mood)
	assert.Equal(t, 9, *got.Mood)
	assert.Nil(t, got.Energy, "metric fields are fully replaced")
	assert.True(t, got.IsFavorite, "favorite survives a save")
}

func TestEntryRepository_TagRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	other := testutil.CreateUser(t, db, "b@test.dev")
	repo := NewEntryRepository(db)
	ctx := context.Background()

	foreign := model.Tag{UserID: &other.ID, Name: "secret", Color: "#000000", Icon: "tag"}
	require.NoError(t, db.Create(&foreign).Error)

	entry := &model.Entry{UserID: user.ID, EntryDate: "2026-10-02"}
	_, err := repo.UpsertEntry(ctx, entry, []uint{1, 2, 2, foreign.ID})
	require.NoError(t, err)

	got, err := repo.GetEntryByID(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	entries := []model.Entry{*got}
	require.NoError(t, repo.AttachTags(ctx, entries))

	ids := make([]uint, 0, len(entries[0].Tags))
	for _, tag := range entries[0].Tags {
		ids = append(ids, tag.ID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, ids)

	// A second save replaces the links.
	_, err = repo.UpsertEntry(ctx, &model.Entry{UserID: user.ID, EntryDate: "2026-10-02"}, []uint{3})
	require.NoError(t, err)
	require.NoError(t, repo.AttachTags(ctx, entries))
	require.Len(t, entries[0].Tags, 1)
	assert.Equal(t, uint(3), entries[0].Tags[0].ID)
}

func TestEntryRepository_ListEntriesFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	repo := NewEntryRepository(db)
	ctx := context.Background()
	work := testutil.SystemTagID(t, db, "work")

	for i, mood := range []int{2, 5, 8, 10} {
		var tags []uint
		if mood >= 8 {
			tags = []uint{work}
		}
		date := []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04"}[i]
		_, err := repo.UpsertEntry(ctx, &model.Entry{UserID: user.ID, EntryDate: date, Mood: testutil.IntPtr(mood)}, tags)
		require.NoError(t, err)
	}

	all, total, err := repo.ListEntries(ctx, user.ID, model.EntryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-09-04", all[0].EntryDate)
	assert.Equal(t, "2026-09-03", all[1].EntryDate)

	byTag, total, err := repo.ListEntries(ctx, user.ID, model.EntryFilter{TagID: &work})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, e := range byTag {
		require.Len(t, e.Tags, 1)
		assert.Equal(t, "work", e.Tags[0].Name)
	}

	ranged, total, err := repo.ListEntries(ctx, user.ID, model.EntryFilter{
		StartDate: "2026-09-02",
		EndDate:   "2026-09-04",
		MinMood:   testutil.IntPtr(5),
		MaxMood:   testutil.IntPtr(9),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, ranged, 2)
	assert.Equal(t, "2026-09-03", ranged[0].EntryDate)
	assert.Equal(t, "2026-09-02", ranged[1].EntryDate)
	assert.Empty(t, ranged[1].Tags)
}

func TestEntryRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	repo := NewEntryRepository(db)
	insights := NewInsightRepository(db)
	ctx := context.Background()

	entry := &model.Entry{UserID: user.ID, EntryDate: "2026-10-03"}
	_, err := repo.UpsertEntry(ctx, entry, []uint{1})
	require.NoError(t, err)
	require.NoError(t, insights.CreateInsight(ctx, &model.Insight{UserID: user.ID, EntryID: &entry.ID, InsightType: model.InsightDailySummary}))
	require.NoError(t, insights.ReplaceEmotions(ctx, entry.ID, []string{"calm"}))

	require.NoError(t, repo.DeleteEntry(ctx, user.ID, entry.ID))

	for _, m := range []any{&model.Entry{}, &model.EntryTag{}, &model.Insight{}, &model.EntryEmotion{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	err = repo.DeleteEntry(ctx, user.ID, entry.ID)
	assert.True(t, IsNotFound(err))
}

func TestEntryRepository_OwnershipIsEnforced(t *testing.T) {
	db := testutil.NewTestDB(t)
	owner := testutil.CreateUser(t, db, "a@test.dev")
	intruder := testutil.CreateUser(t, db, "b@test.dev")
	repo := NewEntryRepository(db)
	ctx := context.Background()

	entry := &model.Entry{UserID: owner.ID, EntryDate: "2026-10-03"}
	_, err := repo.UpsertEntry(ctx, entry, nil)
	require.NoError(t, err)

	_, err = repo.GetEntryByID(ctx, intruder.ID, entry.ID)
	assert.True(t, IsNotFound(err))
	_, err = repo.ToggleFavorite(ctx, intruder.ID, entry.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.DeleteEntry(ctx, intruder.ID, entry.ID)))
}

func TestEntryRepository_Analytics(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "a@test.dev")
	repo := NewEntryRepository(db)
	ctx := context.Background()

	seed := []model.Entry{
		{EntryDate: "2026-10-01", Content: testutil.StrPtr("Walked in the Park"), Mood: testutil.IntPtr(6), SleepHours: testutil.FloatPtr(7)},
		{EntryDate: "2026-10-02", Highlight: testutil.StrPtr("park picnic"), IsPrivate: true},
		{EntryDate: "2026-10-05", Content: testutil.StrPtr("office"), Energy: testutil.IntPtr(3)},
	}
	for i := range seed {
		seed[i].UserID = user.ID
		_, err := repo.UpsertEntry(ctx, &seed[i], nil)
		require.NoError(t, err)
	}

	dates, err := repo.GetEntryDates(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-05", "2026-10-02", "2026-10-01"}, dates)

	ranged, err := repo.GetEntriesForDateRange(ctx, user.ID, "2026-10-01", "2026-10-02")
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "2026-10-01", ranged[0].EntryDate)

	recent, err := repo.GetRecentPublicEntries(ctx, user.ID, "2026-10-05", 7)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2026-10-01", recent[0].EntryDate)

	found, err := repo.SearchEntries(ctx, user.ID, "PARK", 20)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	heatmap, err := repo.GetHeatmap(ctx, user.ID, "2026-10-01", "2026-10-31")
	require.NoError(t, err)
	require.Len(t, heatmap, 3)
	assert.Equal(t, "2026-10-01", heatmap[0].Date)
	require.NotNil(t, heatmap[0].Mood)
	assert.Equal(t, 6, *heatmap[0].Mood)
	require.NotNil(t, heatmap[0].Sleep)
	assert.InDelta(t, 7.0, *heatmap[0].Sleep, 0.001)
	assert.Nil(t, heatmap[1].Mood)
}
