package ai

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

var generationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lifelog_ai_generations_total",
		Help: "AI generations by kind and outcome (success or fallback).",
	},
	[]string{"kind", "outcome"},
)

var errNoJSONObject = errors.New("no JSON object in completion")

// ContextData is the rolling context sent alongside an entry.
type ContextData struct {
	RecentEntries []model.Entry
	AvgMood       float64
	AvgSleep      float64
	AvgEnergy     float64
	FrequentTags  []string
}

// DailyInsight is the structured daily analysis.
type DailyInsight struct {
	Summary      string   `json:"summary"`
	Insights     []string `json:"insights"`
	TomorrowPlan []string `json:"tomorrowPlan"`
	Emotions     []string `json:"emotions"`
}

// WeeklySummary is the structured weekly narrative.
type WeeklySummary struct {
	Title       string   `json:"title"`
	Narrative   string   `json:"narrative"`
	Highlights  []string `json:"highlights"`
	Lowlights   []string `json:"lowlights"`
	Suggestions []string `json:"suggestions"`
}

// SearchHit points at one relevant entry.
type SearchHit struct {
	EntryID   uint   `json:"entry_id"`
	Relevance string `json:"relevance"`
}

// SearchResult is the structured semantic search answer.
type SearchResult struct {
	Results []SearchHit `json:"results"`
	Summary string      `json:"summary"`
}

// FallbackDailyInsight is returned whenever a daily insight cannot be generated.
func FallbackDailyInsight() DailyInsight {
	return DailyInsight{
		Summary:      "Insight generation is currently unavailable. Check your API key in the settings.",
		Insights:     []string{"Configure your AI API key to receive personalized insights."},
		TomorrowPlan: []string{"Get some good rest", "Stay hydrated", "Set aside a moment for yourself"},
		Emotions:     []string{},
	}
}

// FallbackWeeklySummary is returned whenever a weekly summary cannot be generated.
func FallbackWeeklySummary() WeeklySummary {
	return WeeklySummary{
		Title:       "Week in Review",
		Narrative:   "Configure your AI API key to receive detailed weekly analyses.",
		Highlights:  []string{},
		Lowlights:   []string{},
		Suggestions: []string{"Set up the AI integration in the settings"},
	}
}

// FallbackSearchResult is returned whenever a semantic search cannot be performed.
func FallbackSearchResult() SearchResult {
	return SearchResult{
		Results: []SearchHit{},
		Summary: "Configure your API key to use smart search.",
	}
}

// Builder turns entries into prompts and completions into validated
// structures. Its methods never fail: any error yields the fallback.
type Builder struct {
	completer Completer
	logger    zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(completer Completer, logger zerolog.Logger) *Builder {
	return &Builder{
		completer: completer,
		logger:    logger.With().Str("component", "ai-builder").Logger(),
	}
}

func temperature(v float64) *float64 { return &v }

// DailyInsight analyses one entry.
func (b *Builder) DailyInsight(ctx context.Context, apiKey, depth string, entry model.Entry, cd ContextData) DailyInsight {
	req := CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: SystemPrompt(depth)},
			{Role: "user", Content: DailyPrompt(entry, cd)},
		},
		Temperature: temperature(0.7),
		MaxTokens:   1500,
	}
	return generate(ctx, b, "daily", apiKey, req, ParseDailyInsight, FallbackDailyInsight)
}

// WeeklySummary summarizes a week of entries.
func (b *Builder) WeeklySummary(ctx context.Context, apiKey, depth string, entries []model.Entry, cd ContextData) WeeklySummary {
	req := CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: SystemPrompt(depth)},
			{Role: "user", Content: WeeklyPrompt(entries, cd)},
		},
		Temperature: temperature(0.7),
		MaxTokens:   2000,
	}
	return generate(ctx, b, "weekly", apiKey, req, ParseWeeklySummary, FallbackWeeklySummary)
}

// Search ranks entries against a free-text query.
func (b *Builder) Search(ctx context.Context, apiKey, query string, entries []model.Entry) SearchResult {
	req := CompletionRequest{
		Messages: []Message{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: SearchPrompt(query, entries)},
		},
		Temperature: temperature(0.3),
		MaxTokens:   1000,
	}
	return generate(ctx, b, "search", apiKey, req, ParseSearchResult, FallbackSearchResult)
}

func generate[T any](ctx context.Context, b *Builder, kind, apiKey string, req CompletionRequest, parse func(string) (T, error), fallback func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Str("kind", kind).Interface("panic", r).Msg("AI generation panicked, using fallback")
			generationsTotal.WithLabelValues(kind, "fallback").Inc()
			out = fallback()
		}
	}()

	content, err := b.completer.Complete(ctx, apiKey, req)
	if err == nil {
		out, err = parse(content)
	}
	if err != nil {
		b.logger.Warn().Err(err).Str("kind", kind).Msg("AI generation failed, using fallback")
		generationsTotal.WithLabelValues(kind, "fallback").Inc()
		return fallback()
	}
	generationsTotal.WithLabelValues(kind, "success").Inc()
	return out
}

func decodeObject(content string, dst any) error {
	raw, ok := ExtractJSONObject(content)
	if !ok {
		return errNoJSONObject
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode completion JSON: %w", err)
	}
	return nil
}

type missingFields []string

func (m *missingFields) check(present bool, name string) {
	if !present {
		*m = append(*m, name)
	}
}

func (m missingFields) err() error {
	if len(m) == 0 {
		return nil
	}
	return fmt.Errorf("completion JSON missing fields: %v", []string(m))
}

// ParseDailyInsight extracts and validates a DailyInsight from raw completion text.
func ParseDailyInsight(content string) (DailyInsight, error) {
	var shape struct {
		Summary      *string   `json:"summary"`
		Insights     *[]string `json:"insights"`
		TomorrowPlan *[]string `json:"tomorrowPlan"`
		Emotions     *[]string `json:"emotions"`
	}
	if err := decodeObject(content, &shape); err != nil {
		return DailyInsight{}, err
	}
	var missing missingFields
	missing.check(shape.Summary != nil, "summary")
	missing.check(shape.Insights != nil, "insights")
	missing.check(shape.TomorrowPlan != nil, "tomorrowPlan")
	missing.check(shape.Emotions != nil, "emotions")
	if err := missing.err(); err != nil {
		return DailyInsight{}, err
	}
	return DailyInsight{
		Summary:      *shape.Summary,
		Insights:     *shape.Insights,
		TomorrowPlan: *shape.TomorrowPlan,
		Emotions:     *shape.Emotions,
	}, nil
}

// ParseWeeklySummary extracts and validates a WeeklySummary from raw completion text.
func ParseWeeklySummary(content string) (WeeklySummary, error) {
	var shape struct {
		Title       *string   `json:"title"`
		Narrative   *string   `json:"narrative"`
		Highlights  *[]string `json:"highlights"`
		Lowlights   *[]string `json:"lowlights"`
		Suggestions *[]string `json:"suggestions"`
	}
	if err := decodeObject(content, &shape); err != nil {
		return WeeklySummary{}, err
	}
	var missing missingFields
	missing.check(shape.Title != nil, "title")
	missing.check(shape.Narrative != nil, "narrative")
	missing.check(shape.Highlights != nil, "highlights")
	missing.check(shape.Lowlights != nil, "lowlights")
	missing.check(shape.Suggestions != nil, "suggestions")
	if err := missing.err(); err != nil {
		return WeeklySummary{}, err
	}
	return WeeklySummary{
		Title:       *shape.Title,
		Narrative:   *shape.Narrative,
		Highlights:  *shape.Highlights,
		Lowlights:   *shape.Lowlights,
		Suggestions: *shape.Suggestions,
	}, nil
}

// ParseSearchResult extracts and validates a SearchResult from raw completion text.
func ParseSearchResult(content string) (SearchResult, error) {
	var shape struct {
		Results *[]SearchHit `json:"results"`
		Summary *string      `json:"summary"`
	}
	if err := decodeObject(content, &shape); err != nil {
		return SearchResult{}, err
	}
	var missing missingFields
	missing.check(shape.Results != nil, "results")
	missing.check(shape.Summary != nil, "summary")
	if err := missing.err(); err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Results: *shape.Results, Summary: *shape.Summary}, nil
}
