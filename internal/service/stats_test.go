package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
)

var fixedToday = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 7},
		{"30", 30},
		{" 14 ", 14},
		{"abc", 7},
		{"0", 7},
		{"-5", 7},
		{"3.9", 3},
		{"1e12", MaxPeriod},
		{"9223372036854775807", MaxPeriod},
		{"99999999999999999999", MaxPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePeriod(tt.raw))
		})
	}
}

func TestParseEmotionPeriod(t *testing.T) {
	assert.Equal(t, DefaultEmotionPeriod, ParseEmotionPeriod("abc"))
	assert.Equal(t, DefaultEmotionPeriod, ParseEmotionPeriod("0"))
	assert.Equal(t, 14, ParseEmotionPeriod("14"))
	assert.Equal(t, MaxPeriod, ParseEmotionPeriod("1e9"))
}

func TestWindow_InclusiveBounds(t *testing.T) {
	start, end := Window(fixedToday, 7)
	assert.Equal(t, "2026-10-07", start)
	assert.Equal(t, "2026-10-14", end)
}

func TestWindow_MaxPeriodStartsBeforeToday(t *testing.T) {
	start, end := Window(fixedToday, ParsePeriod("9223372036854775807"))
	assert.Less(t, start, end)
	assert.Equal(t, "1926-11-08", start)
}

func TestBuildStats_EmptyWindow(t *testing.T) {
	stats := BuildStats(nil, nil, nil, fixedToday)

	assert.Zero(t, stats.AvgMood)
	assert.Zero(t, stats.AvgEnergy)
	assert.Zero(t, stats.AvgSleep)
	assert.Zero(t, stats.AvgStress)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.CurrentStreak)
	assert.NotNil(t, stats.TopTags)
	assert.Empty(t, stats.TopTags)
	assert.NotNil(t, stats.MoodTrend)
	assert.Empty(t, stats.MoodTrend)
	assert.NotNil(t, stats.SleepTrend)
	assert.Empty(t, stats.SleepTrend)
}

func TestBuildStats_AveragesSkipNulls(t *testing.T) {
	window := []model.Entry{
		{EntryDate: "2026-10-10", Mood: testutil.IntPtr(4), SleepHours: testutil.FloatPtr(6.5), Stress: testutil.IntPtr(3)},
		{EntryDate: "2026-10-11", Mood: testutil.IntPtr(8), Energy: testutil.IntPtr(7)},
		{EntryDate: "2026-10-12", SleepHours: testutil.FloatPtr(8)},
	}

	stats := BuildStats(window, nil, nil, fixedToday)

	assert.Equal(t, 6.0, stats.AvgMood)
	assert.Equal(t, 7.0, stats.AvgEnergy)
	assert.Equal(t, 7.3, stats.AvgSleep)
	assert.Equal(t, 3.0, stats.AvgStress)
	assert.Equal(t, 3, stats.TotalEntries)
}

func TestBuildStats_RoundsToOneDecimal(t *testing.T) {
	window := []model.Entry{
		{EntryDate: "2026-10-10", Mood: testutil.IntPtr(7)},
		{EntryDate: "2026-10-11", Mood: testutil.IntPtr(7)},
		{EntryDate: "2026-10-12", Mood: testutil.IntPtr(8)},
	}
	assert.Equal(t, 7.3, BuildStats(window, nil, nil, fixedToday).AvgMood)
}

func TestBuildStats_TrendsOmitNulls(t *testing.T) {
	window := []model.Entry{
		{EntryDate: "2026-10-10", Mood: testutil.IntPtr(4)},
		{EntryDate: "2026-10-11", SleepHours: testutil.FloatPtr(7.5)},
		{EntryDate: "2026-10-12", Mood: testutil.IntPtr(9), SleepHours: testutil.FloatPtr(6)},
	}

	stats := BuildStats(window, nil, nil, fixedToday)

	assert.Equal(t, []model.TrendPoint{{Date: "2026-10-10", Value: 4}, {Date: "2026-10-12", Value: 9}}, stats.MoodTrend)
	assert.Equal(t, []model.TrendPoint{{Date: "2026-10-11", Value: 7.5}, {Date: "2026-10-12", Value: 6}}, stats.SleepTrend)
}

func TestBuildStats_TopTagsCapped(t *testing.T) {
	top := make([]model.TagCount, 8)
	for i := range top {
		top[i] = model.TagCount{Name: string(rune('a' + i)), Count: 8 - i}
	}
	stats := BuildStats(nil, nil, top, fixedToday)
	assert.Len(t, stats.TopTags, 5)
	assert.Equal(t, "a", stats.TopTags[0].Name)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no entries", nil, 0},
		{"three days then gap", []string{"2026-10-14", "2026-10-13", "2026-10-12", "2026-10-10"}, 3},
		{"nothing today", []string{"2026-10-13", "2026-10-12", "2026-10-11"}, 0},
		{"only today", []string{"2026-10-14"}, 1},
		{"future entries ignored", []string{"2026-10-20", "2026-10-14", "2026-10-13"}, 2},
		{"history beyond any window", []string{"2026-10-14", "2026-10-13", "2026-10-12", "2026-10-11", "2026-10-10", "2026-10-09", "2026-10-08", "2026-10-07", "2026-10-06"}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.dates, fixedToday))
		})
	}
}

func TestCurrentStreak_CrossesMonthBoundary(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, CurrentStreak([]string{"2026-03-01", "2026-02-28", "2026-02-27"}, today))
}

func TestContextAverages_Defaults(t *testing.T) {
	mood, sleep, energy := contextAverages(nil)
	assert.Equal(t, 5.0, mood)
	assert.Equal(t, 7.0, sleep)
	assert.Equal(t, 5.0, energy)

	mood, sleep, energy = contextAverages([]model.Entry{{Mood: testutil.IntPtr(9)}, {Mood: testutil.IntPtr(6), SleepHours: testutil.FloatPtr(5)}})
	assert.Equal(t, 7.5, mood)
	assert.Equal(t, 5.0, sleep)
	assert.Equal(t, 5.0, energy)
}

func TestWeekBounds(t *testing.T) {
	start, end := weekBounds(fixedToday, 0)
	assert.Equal(t, "2026-10-11", start.Format(model.DateLayout))
	assert.Equal(t, "2026-10-17", end.Format(model.DateLayout))

	start, end = weekBounds(fixedToday, 2)
	assert.Equal(t, "2026-09-27", start.Format(model.DateLayout))
	assert.Equal(t, "2026-10-03", end.Format(model.DateLayout))
}
