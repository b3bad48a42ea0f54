package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/pkg/logger"
)

type fakeCompleter struct {
	content string
	err     error
	panics  bool
	calls   []CompletionRequest
	keys    []string
}

func (f *fakeCompleter) Complete(_ context.Context, apiKey string, req CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	f.keys = append(f.keys, apiKey)
	if f.panics {
		panic("boom")
	}
	return f.content, f.err
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func sampleEntry() model.Entry {
	return model.Entry{
		ID:         9,
		EntryDate:  "2026-10-17",
		Content:    strPtr("Long walk in the park, finished the report."),
		Mood:       intPtr(7),
		SleepHours: floatPtr(7.5),
		Highlight:  strPtr("sunset"),
	}
}

func assertDailyFallback(t *testing.T, got DailyInsight) {
	t.Helper()
	assert.Contains(t, strings.ToLower(got.Summary), "api key")
	assert.Len(t, got.Insights, 1)
	assert.Len(t, got.TomorrowPlan, 3)
	assert.NotNil(t, got.Emotions)
	assert.Empty(t, got.Emotions)
	assert.Equal(t, FallbackDailyInsight(), got)
}

func TestBuilder_DailyInsight_ExtractsObjectFromProse(t *testing.T) {
	fc := &fakeCompleter{content: "Here is your analysis:\n" +
		`{"summary":"S","insights":["a"],"tomorrowPlan":["b"],"emotions":["calm"]}` +
		"\nTake care!"}
	b := NewBuilder(fc, logger.Nop())

	got := b.DailyInsight(context.Background(), "sk-key", model.DepthMedium, sampleEntry(), ContextData{AvgMood: 6, AvgSleep: 7, AvgEnergy: 5})

	assert.Equal(t, DailyInsight{Summary: "S", Insights: []string{"a"}, TomorrowPlan: []string{"b"}, Emotions: []string{"calm"}}, got)
	require.Len(t, fc.calls, 1)
	assert.Equal(t, "sk-key", fc.keys[0])
	req := fc.calls[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, 1500, req.MaxTokens)
}

func TestBuilder_DailyInsight_FallbackOnCompleterError(t *testing.T) {
	b := NewBuilder(&fakeCompleter{err: errors.New("network down")}, logger.Nop())
	assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthDeep, sampleEntry(), ContextData{}))
}

func TestBuilder_DailyInsight_FallbackOnPanic(t *testing.T) {
	b := NewBuilder(&fakeCompleter{panics: true}, logger.Nop())
	assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthDeep, sampleEntry(), ContextData{}))
}

func TestBuilder_DailyInsight_FallbackOnMalformedContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no json", "I cannot help with that."},
		{"missing fields", `{"summary":"only summary"}`},
		{"wrong types", `{"summary":1,"insights":"a","tomorrowPlan":[],"emotions":[]}`},
		{"null field", `{"summary":"S","insights":null,"tomorrowPlan":[],"emotions":[]}`},
		{"broken json", `{"summary": "S", "insights": [}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(&fakeCompleter{content: tt.content}, logger.Nop())
			assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthShallow, sampleEntry(), ContextData{}))
		})
	}
}

func TestBuilder_DailyInsight_OverHTTP(t *testing.T) {
	setupHTTPMock(t)

	t.Run("server error falls back", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", completionsURL,
			httpmock.NewStringResponder(http.StatusInternalServerError, "oops"))

		b := NewBuilder(newTestClient(1), logger.Nop())
		assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthMedium, sampleEntry(), ContextData{}))
	})

	t.Run("200 without json falls back", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", completionsURL,
			httpmock.NewStringResponder(http.StatusOK, completionBody("Sorry, no structured answer today.")))

		b := NewBuilder(newTestClient(0), logger.Nop())
		assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthMedium, sampleEntry(), ContextData{}))
	})

	t.Run("success", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", completionsURL,
			httpmock.NewStringResponder(http.StatusOK, completionBody(
				"```json\n{\"summary\":\"Good day\",\"insights\":[\"walks help\"],\"tomorrowPlan\":[\"walk again\"],\"emotions\":[\"joy\"]}\n```")))

		b := NewBuilder(newTestClient(0), logger.Nop())
		got := b.DailyInsight(context.Background(), "sk", model.DepthMedium, sampleEntry(), ContextData{})
		assert.Equal(t, "Good day", got.Summary)
		assert.Equal(t, []string{"joy"}, got.Emotions)
	})
}

func TestBuilder_WeeklySummary(t *testing.T) {
	entries := []model.Entry{sampleEntry(), {EntryDate: "2026-10-18"}}

	fc := &fakeCompleter{content: `{"title":"T","narrative":"N","highlights":["h"],"lowlights":[],"suggestions":["s"]}`}
	got := NewBuilder(fc, logger.Nop()).WeeklySummary(context.Background(), "sk", model.DepthDeep, entries, ContextData{AvgMood: 7})
	assert.Equal(t, WeeklySummary{Title: "T", Narrative: "N", Highlights: []string{"h"}, Lowlights: []string{}, Suggestions: []string{"s"}}, got)
	require.Len(t, fc.calls, 1)
	assert.Equal(t, 2000, fc.calls[0].MaxTokens)
	assert.Contains(t, fc.calls[0].Messages[1].Content, "2026-10-18: mood ?/10, energy ?/10, sleep ?h")

	fallback := NewBuilder(&fakeCompleter{content: `{"title":"T"}`}, logger.Nop()).
		WeeklySummary(context.Background(), "sk", model.DepthDeep, entries, ContextData{})
	assert.Equal(t, FallbackWeeklySummary(), fallback)
}

func TestBuilder_Search(t *testing.T) {
	entries := []model.Entry{sampleEntry()}

	fc := &fakeCompleter{content: `Results: {"results":[{"entry_id":9,"relevance":"mentions the park"}],"summary":"One walk"}`}
	got := NewBuilder(fc, logger.Nop()).Search(context.Background(), "sk", "park", entries)
	assert.Equal(t, SearchResult{Results: []SearchHit{{EntryID: 9, Relevance: "mentions the park"}}, Summary: "One walk"}, got)
	require.Len(t, fc.calls, 1)
	assert.Equal(t, searchSystemPrompt, fc.calls[0].Messages[0].Content)
	require.NotNil(t, fc.calls[0].Temperature)
	assert.InDelta(t, 0.3, *fc.calls[0].Temperature, 0.0001)

	fallback := NewBuilder(&fakeCompleter{err: errors.New("x")}, logger.Nop()).Search(context.Background(), "sk", "park", entries)
	assert.Equal(t, FallbackSearchResult(), fallback)
	assert.NotNil(t, fallback.Results)
}

func TestBuilder_NilCompleterFallsBack(t *testing.T) {
	b := NewBuilder(nil, logger.Nop())
	assertDailyFallback(t, b.DailyInsight(context.Background(), "sk", model.DepthMedium, sampleEntry(), ContextData{}))
}
