package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
)

const (
	DefaultEmotionPeriod = 30

	defaultSearchLimit  = 20
	maxSearchLimit      = 100
	semanticSearchScope = 100
)

// DatePeriod is an inclusive date range.
type DatePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySummaryResult is the weekly review of one Sunday..Saturday week.
type WeeklySummaryResult struct {
	Summary      ai.WeeklySummary `json:"summary"`
	Period       DatePeriod       `json:"period"`
	EntriesCount int              `json:"entries_count"`
}

// SearchMatch is an entry returned by a search, with the AI's reason when
// the search was semantic.
type SearchMatch struct {
	model.Entry
	Relevance string `json:"relevance,omitempty"`
}

// Search methods.
const (
	SearchMethodText     = "text"
	SearchMethodSemantic = "semantic"
)

// SearchResponse is the result of a journal search.
type SearchResponse struct {
	Results []SearchMatch `json:"results"`
	Method  string        `json:"method"`
	Summary string        `json:"summary,omitempty"`
	Message string        `json:"message,omitempty"`
}

// HeatmapResult holds the points of a year or of one month.
type HeatmapResult struct {
	Heatmap []model.HeatmapPoint `json:"heatmap"`
	Year    int                  `json:"year"`
	Month   *int                 `json:"month"`
}

// DashboardServiceInterface defines the dashboard read operations.
type DashboardServiceInterface interface {
	GetStats(ctx context.Context, userID uint, period int) (*model.DashboardStats, error)
	GetWeeklySummary(ctx context.Context, userID uint, weekOffset int) (*WeeklySummaryResult, error)
	Search(ctx context.Context, userID uint, query string, limit int) (*SearchResponse, error)
	GetHeatmap(ctx context.Context, userID uint, year int, month *int) (*HeatmapResult, error)
	GetEmotions(ctx context.Context, userID uint, period int) ([]model.EmotionSummary, error)
}

// DashboardService implements DashboardServiceInterface.
type DashboardService struct {
	EntryRepo    repository.EntryRepositoryInterface
	TagRepo      repository.TagRepositoryInterface
	InsightRepo  repository.InsightRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	Generator    InsightGenerator
	Stats        *StatsCache

	now    func() time.Time
	logger zerolog.Logger
}

// DashboardServiceDeps groups the collaborators of DashboardService.
type DashboardServiceDeps struct {
	EntryRepo    repository.EntryRepositoryInterface
	TagRepo      repository.TagRepositoryInterface
	InsightRepo  repository.InsightRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	Generator    InsightGenerator
	Stats        *StatsCache
	Logger       zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(deps DashboardServiceDeps) DashboardServiceInterface {
	return &DashboardService{
		EntryRepo:    deps.EntryRepo,
		TagRepo:      deps.TagRepo,
		InsightRepo:  deps.InsightRepo,
		SettingsRepo: deps.SettingsRepo,
		Generator:    deps.Generator,
		Stats:        deps.Stats,
		now:          time.Now,
		logger:       deps.Logger.With().Str("component", "dashboard-service").Logger(),
	}
}

func (s *DashboardService) today() time.Time {
	return s.now().UTC()
}

// GetStats aggregates the user's entries over [today-period, today].
func (s *DashboardService) GetStats(ctx context.Context, userID uint, period int) (*model.DashboardStats, error) {
	period = clampPeriod(period, DefaultPeriod)
	today := s.today()
	start, end := Window(today, period)

	if cached, ok := s.Stats.Get(userID, period, end); ok {
		return &cached, nil
	}

	window, err := s.EntryRepo.GetEntriesForDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load window entries: %w", err)
	}
	history, err := s.EntryRepo.GetEntryDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load entry dates: %w", err)
	}
	top, err := s.TagRepo.GetTopTags(ctx, userID, start, end, topTagsLimit)
	if err != nil {
		return nil, fmt.Errorf("load top tags: %w", err)
	}

	stats := BuildStats(window, history, top, today)
	s.Stats.Set(userID, period, end, stats)
	return &stats, nil
}

// weekBounds returns Sunday..Saturday of the week weekOffset weeks before today's.
func weekBounds(today time.Time, weekOffset int) (time.Time, time.Time) {
	start := today.AddDate(0, 0, -int(today.Weekday())-7*weekOffset)
	return start, start.AddDate(0, 0, 6)
}

func emptyWeekSummary() ai.WeeklySummary {
	return ai.WeeklySummary{
		Title:       "A week without entries",
		Narrative:   "You did not record any entries this week.",
		Highlights:  []string{},
		Lowlights:   []string{},
		Suggestions: []string{"Try writing for a few minutes each day to follow your progress."},
	}
}

// localWeekSummary describes the week without the AI.
func localWeekSummary(entries []model.Entry) ai.WeeklySummary {
	moods := intValues(entries, func(e model.Entry) *int { return e.Mood })
	var avg float64
	if len(moods) > 0 {
		avg = rawMean(moods)
	}

	highlights := []string{}
	for _, e := range entries {
		if !e.IsFavorite {
			continue
		}
		if e.Highlight != nil && *e.Highlight != "" {
			highlights = append(highlights, *e.Highlight)
		} else {
			highlights = append(highlights, "Day "+e.EntryDate)
		}
	}

	return ai.WeeklySummary{
		Title: fmt.Sprintf("A week with %d entries", len(entries)),
		Narrative: fmt.Sprintf("You recorded %d entries this week with an average mood of %.1f/10. "+
			"Configure your API key for more detailed analyses.", len(entries), avg),
		Highlights:  highlights,
		Lowlights:   []string{},
		Suggestions: []string{"Configure your API key in the settings to receive personalized analyses."},
	}
}

// GetWeeklySummary reviews a week. Without entries or without an API key a
// locally built summary is returned; otherwise the AI writes it from the
// week's public entries.
func (s *DashboardService) GetWeeklySummary(ctx context.Context, userID uint, weekOffset int) (*WeeklySummaryResult, error) {
	if weekOffset < 0 {
		weekOffset = 0
	}
	startDay, endDay := weekBounds(s.today(), weekOffset)
	period := DatePeriod{Start: startDay.Format(model.DateLayout), End: endDay.Format(model.DateLayout)}

	entries, err := s.EntryRepo.GetEntriesForDateRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("load week entries: %w", err)
	}
	result := &WeeklySummaryResult{Period: period, EntriesCount: len(entries)}
	if len(entries) == 0 {
		result.Summary = emptyWeekSummary()
		return result, nil
	}

	settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	public := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsPrivate {
			public = append(public, e)
		}
	}
	if !settings.HasAPIKey() || len(public) == 0 {
		result.Summary = localWeekSummary(entries)
		return result, nil
	}

	cd := ai.ContextData{RecentEntries: public}
	cd.AvgMood, cd.AvgSleep, cd.AvgEnergy = contextAverages(public)
	result.Summary = s.Generator.WeeklySummary(ctx, *settings.AIAPIKey, settings.AIDepth, public, cd)
	return result, nil
}

// Search looks through the user's journal. Without an API key it is a plain
// text match; with one, the AI ranks the latest public entries.
func (s *DashboardService) Search(ctx context.Context, userID uint, query string, limit int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if !settings.HasAPIKey() {
		found, err := s.EntryRepo.SearchEntries(ctx, userID, query, limit)
		if err != nil {
			return nil, fmt.Errorf("text search: %w", err)
		}
		results := make([]SearchMatch, 0, len(found))
		for _, e := range found {
			results = append(results, SearchMatch{Entry: e})
		}
		return &SearchResponse{
			Results: results,
			Method:  SearchMethodText,
			Message: "Configure your API key for smarter semantic search.",
		}, nil
	}

	candidates, err := s.EntryRepo.GetRecentPublicEntries(ctx, userID, "", semanticSearchScope)
	if err != nil {
		return nil, fmt.Errorf("load search candidates: %w", err)
	}
	resp := &SearchResponse{Results: []SearchMatch{}, Method: SearchMethodSemantic}
	if len(candidates) == 0 {
		return resp, nil
	}

	answer := s.Generator.Search(ctx, *settings.AIAPIKey, query, candidates)
	resp.Summary = answer.Summary

	byID := make(map[uint]model.Entry, len(candidates))
	for _, e := range candidates {
		byID[e.ID] = e
	}
	for _, hit := range answer.Results {
		if len(resp.Results) == limit {
			break
		}
		if e, ok := byID[hit.EntryID]; ok {
			resp.Results = append(resp.Results, SearchMatch{Entry: e, Relevance: hit.Relevance})
		}
	}
	return resp, nil
}

// GetHeatmap returns a year of daily points, or a single month when month is set.
func (s *DashboardService) GetHeatmap(ctx context.Context, userID uint, year int, month *int) (*HeatmapResult, error) {
	if year <= 0 {
		year = s.today().Year()
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	if month != nil {
		if *month < 1 || *month > 12 {
			return nil, ErrInvalidMonth
		}
		start = time.Date(year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	}

	points, err := s.EntryRepo.GetHeatmap(ctx, userID, start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("load heatmap: %w", err)
	}
	if points == nil {
		points = []model.HeatmapPoint{}
	}
	return &HeatmapResult{Heatmap: points, Year: year, Month: month}, nil
}

// GetEmotions summarizes the emotion labels of the last period days.
func (s *DashboardService) GetEmotions(ctx context.Context, userID uint, period int) ([]model.EmotionSummary, error) {
	period = clampPeriod(period, DefaultEmotionPeriod)
	since, _ := Window(s.today(), period)
	summary, err := s.InsightRepo.GetEmotionSummary(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load emotions: %w", err)
	}
	if summary == nil {
		summary = []model.EmotionSummary{}
	}
	for i := range summary {
		summary[i].AvgIntensity = roundTenth(summary[i].AvgIntensity)
	}
	return summary, nil
}
