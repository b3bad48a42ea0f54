package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
)

const (
	defaultEntryLimit = 30
	maxEntryLimit     = 100

	insightContextEntries = 7
	insightTagWindowDays  = 30
	insightTopTags        = 5
)

// EntryInput is the payload of an entry save. Metric fields left out are
// stored as null.
type EntryInput struct {
	EntryDate          string   `json:"entry_date" validate:"required,datetime=2006-01-02"`
	Content            *string  `json:"content"`
	Mood               *int     `json:"mood" validate:"omitempty,min=0,max=10"`
	Energy             *int     `json:"energy" validate:"omitempty,min=0,max=10"`
	SleepHours         *float64 `json:"sleep_hours" validate:"omitempty,min=0,max=24"`
	SleepQuality       *int     `json:"sleep_quality" validate:"omitempty,min=0,max=10"`
	Stress             *int     `json:"stress" validate:"omitempty,min=0,max=10"`
	Focus              *int     `json:"focus" validate:"omitempty,min=0,max=10"`
	PhysicalDiscomfort *int     `json:"physical_discomfort" validate:"omitempty,min=0,max=10"`
	Highlight          *string  `json:"highlight"`
	IsPrivate          bool     `json:"is_private"`
	TagIDs             []uint   `json:"tag_ids"`
	GenerateInsights   *bool    `json:"generate_insights"`
}

// InsightGenerator produces structured AI output. Implementations never fail;
// they degrade to fallback values.
type InsightGenerator interface {
	DailyInsight(ctx context.Context, apiKey, depth string, entry model.Entry, cd ai.ContextData) ai.DailyInsight
	WeeklySummary(ctx context.Context, apiKey, depth string, entries []model.Entry, cd ai.ContextData) ai.WeeklySummary
	Search(ctx context.Context, apiKey, query string, entries []model.Entry) ai.SearchResult
}

// EntryServiceInterface defines the journal entry operations.
type EntryServiceInterface interface {
	SaveEntry(ctx context.Context, userID uint, in EntryInput) (entry *model.Entry, created bool, err error)
	GetEntry(ctx context.Context, userID, id uint) (*model.Entry, error)
	GetEntryByDate(ctx context.Context, userID uint, date string) (*model.Entry, error)
	ListEntries(ctx context.Context, userID uint, filter model.EntryFilter) ([]model.Entry, int64, error)
	GenerateInsights(ctx context.Context, userID, id uint) (*ai.DailyInsight, error)
	ToggleFavorite(ctx context.Context, userID, id uint) (bool, error)
	DeleteEntry(ctx context.Context, userID, id uint) error
}

// EntryService implements EntryServiceInterface.
type EntryService struct {
	EntryRepo    repository.EntryRepositoryInterface
	TagRepo      repository.TagRepositoryInterface
	InsightRepo  repository.InsightRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	Generator    InsightGenerator
	Stats        *StatsCache
	AutoInsights bool

	now    func() time.Time
	logger zerolog.Logger
}

// EntryServiceDeps groups the collaborators of EntryService.
type EntryServiceDeps struct {
	EntryRepo    repository.EntryRepositoryInterface
	TagRepo      repository.TagRepositoryInterface
	InsightRepo  repository.InsightRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	Generator    InsightGenerator
	Stats        *StatsCache
	AutoInsights bool
	Logger       zerolog.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(deps EntryServiceDeps) EntryServiceInterface {
	return &EntryService{
		EntryRepo:    deps.EntryRepo,
		TagRepo:      deps.TagRepo,
		InsightRepo:  deps.InsightRepo,
		SettingsRepo: deps.SettingsRepo,
		Generator:    deps.Generator,
		Stats:        deps.Stats,
		AutoInsights: deps.AutoInsights,
		now:          time.Now,
		logger:       deps.Logger.With().Str("component", "entry-service").Logger(),
	}
}

func (s *EntryService) today() time.Time {
	return s.now().UTC()
}

// nullIfBlank maps empty text to null, as the client sends "" for cleared fields.
func nullIfBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// SaveEntry upserts the entry for in.EntryDate. When the entry is public, the
// user has an API key and auto insights are enabled, a daily insight is
// generated before returning.
func (s *EntryService) SaveEntry(ctx context.Context, userID uint, in EntryInput) (*model.Entry, bool, error) {
	if _, err := time.Parse(model.DateLayout, in.EntryDate); err != nil {
		return nil, false, fmt.Errorf("%w: entry_date must be YYYY-MM-DD", ErrInvalidInput)
	}

	entry := &model.Entry{
		UserID:             userID,
		EntryDate:          in.EntryDate,
		Content:            nullIfBlank(in.Content),
		Mood:               in.Mood,
		Energy:             in.Energy,
		SleepHours:         in.SleepHours,
		SleepQuality:       in.SleepQuality,
		Stress:             in.Stress,
		Focus:              in.Focus,
		PhysicalDiscomfort: in.PhysicalDiscomfort,
		Highlight:          nullIfBlank(in.Highlight),
		IsPrivate:          in.IsPrivate,
	}
	created, err := s.EntryRepo.UpsertEntry(ctx, entry, in.TagIDs)
	if err != nil {
		return nil, false, fmt.Errorf("save entry: %w", err)
	}
	s.Stats.InvalidateUser(userID)

	saved, err := s.loadEntry(ctx, userID, entry.ID)
	if err != nil {
		return nil, false, err
	}

	if s.AutoInsights && !saved.IsPrivate && (in.GenerateInsights == nil || *in.GenerateInsights) {
		s.autoGenerate(ctx, userID, saved)
	}
	return saved, created, nil
}

// autoGenerate attaches a fresh insight to a just-saved entry. Failures are
// logged and never fail the save.
func (s *EntryService) autoGenerate(ctx context.Context, userID uint, entry *model.Entry) {
	settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("Could not load settings for auto insights")
		return
	}
	if !settings.HasAPIKey() {
		return
	}
	if _, err := s.generate(ctx, userID, entry, settings); err != nil {
		s.logger.Warn().Err(err).Uint("entry_id", entry.ID).Msg("Auto insight generation failed")
		return
	}
	if err := s.attachInsights(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Uint("entry_id", entry.ID).Msg("Could not load generated insights")
	}
}

// loadEntry returns the entry with its tags.
func (s *EntryService) loadEntry(ctx context.Context, userID, id uint) (*model.Entry, error) {
	entry, err := s.EntryRepo.GetEntryByID(ctx, userID, id)
	if repository.IsNotFound(err) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	entries := []model.Entry{*entry}
	if err := s.EntryRepo.AttachTags(ctx, entries); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return &entries[0], nil
}

func (s *EntryService) attachInsights(ctx context.Context, entry *model.Entry) error {
	insights, err := s.InsightRepo.GetInsightsForEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("load insights: %w", err)
	}
	emotions, err := s.InsightRepo.GetEmotionsForEntry(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("load emotions: %w", err)
	}
	entry.Insights = insights
	entry.Emotions = emotions
	return nil
}

// GetEntry returns the entry with tags, insights (newest first) and emotions.
func (s *EntryService) GetEntry(ctx context.Context, userID, id uint) (*model.Entry, error) {
	entry, err := s.loadEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachInsights(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntryByDate returns nil without error when the day has no entry.
func (s *EntryService) GetEntryByDate(ctx context.Context, userID uint, date string) (*model.Entry, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	entry, err := s.EntryRepo.GetEntryByDate(ctx, userID, date)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry by date: %w", err)
	}
	return s.GetEntry(ctx, userID, entry.ID)
}

// ClampEntryLimit applies the listing page size bounds.
func ClampEntryLimit(limit int) int {
	if limit <= 0 {
		return defaultEntryLimit
	}
	if limit > maxEntryLimit {
		return maxEntryLimit
	}
	return limit
}

func (s *EntryService) ListEntries(ctx context.Context, userID uint, filter model.EntryFilter) ([]model.Entry, int64, error) {
	filter.Limit = ClampEntryLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, total, err := s.EntryRepo.ListEntries(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return entries, total, nil
}

// GenerateInsights runs the daily insight for an entry on demand.
func (s *EntryService) GenerateInsights(ctx context.Context, userID, id uint) (*ai.DailyInsight, error) {
	entry, err := s.EntryRepo.GetEntryByID(ctx, userID, id)
	if repository.IsNotFound(err) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.IsPrivate {
		return nil, ErrEntryPrivate
	}

	settings, err := s.SettingsRepo.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if !settings.HasAPIKey() {
		return nil, ErrAPIKeyMissing
	}

	insight, err := s.generate(ctx, userID, entry, settings)
	if err != nil {
		return nil, err
	}
	return &insight, nil
}

// generate builds the context, calls the generator and stores the result.
// Emotion labels are replaced only when the result carries some.
func (s *EntryService) generate(ctx context.Context, userID uint, entry *model.Entry, settings *model.UserSettings) (ai.DailyInsight, error) {
	recent, err := s.EntryRepo.GetRecentPublicEntries(ctx, userID, entry.EntryDate, insightContextEntries)
	if err != nil {
		return ai.DailyInsight{}, fmt.Errorf("load recent entries: %w", err)
	}
	start, end := Window(s.today(), insightTagWindowDays)
	top, err := s.TagRepo.GetTopTags(ctx, userID, start, end, insightTopTags)
	if err != nil {
		return ai.DailyInsight{}, fmt.Errorf("load top tags: %w", err)
	}

	cd := ai.ContextData{RecentEntries: recent}
	cd.AvgMood, cd.AvgSleep, cd.AvgEnergy = contextAverages(recent)
	for _, t := range top {
		cd.FrequentTags = append(cd.FrequentTags, t.Name)
	}

	insight := s.Generator.DailyInsight(ctx, *settings.AIAPIKey, settings.AIDepth, *entry, cd)

	content, err := json.Marshal(insight)
	if err != nil {
		return ai.DailyInsight{}, fmt.Errorf("encode insight: %w", err)
	}
	metadata, err := json.Marshal(map[string]string{"generated_at": s.now().UTC().Format(time.RFC3339)})
	if err != nil {
		return ai.DailyInsight{}, fmt.Errorf("encode insight metadata: %w", err)
	}
	entryID := entry.ID
	if err := s.InsightRepo.CreateInsight(ctx, &model.Insight{
		UserID:      userID,
		EntryID:     &entryID,
		InsightType: model.InsightDailySummary,
		Content:     datatypes.JSON(content),
		Metadata:    datatypes.JSON(metadata),
	}); err != nil {
		return ai.DailyInsight{}, fmt.Errorf("save insight: %w", err)
	}

	if len(insight.Emotions) > 0 {
		if err := s.InsightRepo.ReplaceEmotions(ctx, entry.ID, insight.Emotions); err != nil {
			return ai.DailyInsight{}, fmt.Errorf("save emotions: %w", err)
		}
	}
	return insight, nil
}

func (s *EntryService) ToggleFavorite(ctx context.Context, userID, id uint) (bool, error) {
	favorite, err := s.EntryRepo.ToggleFavorite(ctx, userID, id)
	if repository.IsNotFound(err) {
		return false, ErrEntryNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return favorite, nil
}

// DeleteEntry removes the entry together with its tag links, insights and emotions.
func (s *EntryService) DeleteEntry(ctx context.Context, userID, id uint) error {
	err := s.EntryRepo.DeleteEntry(ctx, userID, id)
	if repository.IsNotFound(err) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.Stats.InvalidateUser(userID)
	return nil
}
