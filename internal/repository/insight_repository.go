package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// InsightRepositoryInterface defines the persistence operations for insights
// and the per-entry emotion labels derived from them.
type InsightRepositoryInterface interface {
	CreateInsight(ctx context.Context, insight *model.Insight) error
	GetInsightsForEntry(ctx context.Context, entryID uint) ([]model.Insight, error)
	ReplaceEmotions(ctx context.Context, entryID uint, emotions []string) error
	GetEmotionsForEntry(ctx context.Context, entryID uint) ([]model.EntryEmotion, error)
	GetEmotionSummary(ctx context.Context, userID uint, since string) ([]model.EmotionSummary, error)
}

// InsightRepository implements InsightRepositoryInterface.
type InsightRepository struct {
	DB *gorm.DB
}

// NewInsightRepository creates a new InsightRepository.
func NewInsightRepository(db *gorm.DB) InsightRepositoryInterface {
	return &InsightRepository{DB: db}
}

func (r *InsightRepository) CreateInsight(ctx context.Context, insight *model.Insight) error {
	return r.DB.WithContext(ctx).Create(insight).Error
}

// GetInsightsForEntry returns the entry's insights, newest first.
func (r *InsightRepository) GetInsightsForEntry(ctx context.Context, entryID uint) ([]model.Insight, error) {
	insights := []model.Insight{}
	err := r.DB.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// ReplaceEmotions swaps the entry's emotion labels for the given list.
func (r *InsightRepository) ReplaceEmotions(ctx context.Context, entryID uint, emotions []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&model.EntryEmotion{}).Error; err != nil {
			return err
		}
		if len(emotions) == 0 {
			return nil
		}
		rows := make([]model.EntryEmotion, 0, len(emotions))
		for _, e := range emotions {
			rows = append(rows, model.EntryEmotion{EntryID: entryID, Emotion: e, Intensity: 5})
		}
		return tx.Create(&rows).Error
	})
}

func (r *InsightRepository) GetEmotionsForEntry(ctx context.Context, entryID uint) ([]model.EntryEmotion, error) {
	emotions := []model.EntryEmotion{}
	if err := r.DB.WithContext(ctx).Where("entry_id = ?", entryID).Order("id ASC").Find(&emotions).Error; err != nil {
		return nil, err
	}
	return emotions, nil
}

// GetEmotionSummary aggregates emotion labels on the user's entries dated on
// or after since, most frequent first.
func (r *InsightRepository) GetEmotionSummary(ctx context.Context, userID uint, since string) ([]model.EmotionSummary, error) {
	summary := []model.EmotionSummary{}
	err := r.DB.WithContext(ctx).
		Table("entry_emotions").
		Select("entry_emotions.emotion, COUNT(*) AS count, AVG(entry_emotions.intensity) AS avg_intensity").
		Joins("JOIN entries ON entries.id = entry_emotions.entry_id").
		Where("entries.user_id = ? AND entries.entry_date >= ?", userID, since).
		Group("entry_emotions.emotion").
		Order("count DESC").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return summary, nil
}
