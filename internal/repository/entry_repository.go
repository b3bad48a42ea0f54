package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// entryWriteColumns are replaced in full on every save of an existing entry.
var entryWriteColumns = []string{
	"content", "mood", "energy", "sleep_hours", "sleep_quality",
	"stress", "focus", "physical_discomfort", "highlight", "is_private",
}

// EntryRepositoryInterface defines the persistence operations for entries.
type EntryRepositoryInterface interface {
	UpsertEntry(ctx context.Context, entry *model.Entry, tagIDs []uint) (created bool, err error)
	GetEntryByID(ctx context.Context, userID, id uint) (*model.Entry, error)
	GetEntryByDate(ctx context.Context, userID uint, date string) (*model.Entry, error)
	ListEntries(ctx context.Context, userID uint, filter model.EntryFilter) ([]model.Entry, int64, error)
	ToggleFavorite(ctx context.Context, userID, id uint) (bool, error)
	DeleteEntry(ctx context.Context, userID, id uint) error
	AttachTags(ctx context.Context, entries []model.Entry) error

	// Analytics
	GetEntriesForDateRange(ctx context.Context, userID uint, startDate, endDate string) ([]model.Entry, error)
	GetEntryDates(ctx context.Context, userID uint) ([]string, error)
	GetRecentPublicEntries(ctx context.Context, userID uint, beforeDate string, limit int) ([]model.Entry, error)
	SearchEntries(ctx context.Context, userID uint, query string, limit int) ([]model.Entry, error)
	GetHeatmap(ctx context.Context, userID uint, startDate, endDate string) ([]model.HeatmapPoint, error)
}

// EntryRepository implements EntryRepositoryInterface.
type EntryRepository struct {
	DB *gorm.DB
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *gorm.DB) EntryRepositoryInterface {
	return &EntryRepository{DB: db}
}

// UpsertEntry writes entry keyed by (UserID, EntryDate). An existing row gets
// its metric fields and tag links fully replaced; the favorite flag is kept.
// Tag ids the user cannot see are dropped.
func (r *EntryRepository) UpsertEntry(ctx context.Context, entry *model.Entry, tagIDs []uint) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Entry
		err := tx.Where("user_id = ? AND entry_date = ?", entry.UserID, entry.EntryDate).First(&existing).Error
		switch {
		case err == nil:
			entry.ID = existing.ID
			entry.IsFavorite = existing.IsFavorite
			entry.CreatedAt = existing.CreatedAt
			if err := tx.Model(&existing).Select(entryWriteColumns).Updates(entry).Error; err != nil {
				return err
			}
			if err := tx.Where("entry_id = ?", entry.ID).Delete(&model.EntryTag{}).Error; err != nil {
				return err
			}
		case IsNotFound(err):
			entry.ID = 0
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		if len(tagIDs) == 0 {
			return nil
		}
		var visible []uint
		if err := visibleTo(tx.Model(&model.Tag{}), entry.UserID).
			Where("id IN ?", tagIDs).
			Pluck("id", &visible).Error; err != nil {
			return err
		}
		if len(visible) == 0 {
			return nil
		}
		links := make([]model.EntryTag, 0, len(visible))
		for _, id := range visible {
			links = append(links, model.EntryTag{EntryID: entry.ID, TagID: id})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *EntryRepository) GetEntryByID(ctx context.Context, userID, id uint) (*model.Entry, error) {
	var entry model.Entry
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) GetEntryByDate(ctx context.Context, userID uint, date string) (*model.Entry, error) {
	var entry model.Entry
	if err := r.DB.WithContext(ctx).Where("user_id = ? AND entry_date = ?", userID, date).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns the filtered page (newest first) and the total match count.
func (r *EntryRepository) ListEntries(ctx context.Context, userID uint, filter model.EntryFilter) ([]model.Entry, int64, error) {
	var entries []model.Entry
	var totalCount int64

	query := r.DB.WithContext(ctx).Model(&model.Entry{}).Where("user_id = ?", userID)

	// Apply filters
	if filter.StartDate != "" {
		query = query.Where("entry_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("entry_date <= ?", filter.EndDate)
	}
	if filter.TagID != nil {
		query = query.Where("id IN (?)", r.DB.Model(&model.EntryTag{}).Select("entry_id").Where("tag_id = ?", *filter.TagID))
	}
	if filter.MinMood != nil {
		query = query.Where("mood >= ?", *filter.MinMood)
	}
	if filter.MaxMood != nil {
		query = query.Where("mood <= ?", *filter.MaxMood)
	}

	// Count before pagination
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("entry_date DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	if err := r.AttachTags(ctx, entries); err != nil {
		return nil, 0, err
	}
	return entries, totalCount, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (r *EntryRepository) ToggleFavorite(ctx context.Context, userID, id uint) (bool, error) {
	var favorite bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.Entry
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			return err
		}
		favorite = !entry.IsFavorite
		return tx.Model(&entry).Update("is_favorite", favorite).Error
	})
	return favorite, err
}

// DeleteEntry hard-deletes the entry with its tag links, insights and emotions.
func (r *EntryRepository) DeleteEntry(ctx context.Context, userID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.Entry
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			return err
		}
		for _, dependent := range []any{&model.EntryTag{}, &model.EntryEmotion{}, &model.Insight{}} {
			if err := tx.Where("entry_id = ?", entry.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entry).Error
	})
}

// AttachTags loads the tags of every entry in place. Insights and emotions
// are reset to empty and left for the caller to load.
func (r *EntryRepository) AttachTags(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uint, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
		entries[i].ClearRelations()
	}

	var links []model.EntryTag
	if err := r.DB.WithContext(ctx).Where("entry_id IN ?", ids).Find(&links).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	tagIDs := make([]uint, 0, len(links))
	for _, l := range links {
		tagIDs = append(tagIDs, l.TagID)
	}
	var tags []model.Tag
	if err := r.DB.WithContext(ctx).Where("id IN ?", tagIDs).Order("name ASC").Find(&tags).Error; err != nil {
		return err
	}
	byID := make(map[uint]model.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	index := make(map[uint]int, len(entries))
	for i := range entries {
		index[entries[i].ID] = i
	}
	for _, l := range links {
		tag, ok := byID[l.TagID]
		if !ok {
			continue
		}
		i := index[l.EntryID]
		entries[i].Tags = append(entries[i].Tags, tag)
	}
	return nil
}

// GetEntriesForDateRange returns the user's entries in [startDate, endDate], oldest first.
func (r *EntryRepository) GetEntriesForDateRange(ctx context.Context, userID uint, startDate, endDate string) ([]model.Entry, error) {
	var entries []model.Entry
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND entry_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("entry_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntryDates returns every entry date of the user, newest first.
func (r *EntryRepository) GetEntryDates(ctx context.Context, userID uint) ([]string, error) {
	var dates []string
	err := r.DB.WithContext(ctx).
		Model(&model.Entry{}).
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Pluck("entry_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// GetRecentPublicEntries returns up to limit non-private entries, newest
// first. A non-empty beforeDate keeps only entries dated strictly earlier.
func (r *EntryRepository) GetRecentPublicEntries(ctx context.Context, userID uint, beforeDate string, limit int) ([]model.Entry, error) {
	var entries []model.Entry
	query := r.DB.WithContext(ctx).Where("user_id = ? AND is_private = ?", userID, false)
	if beforeDate != "" {
		query = query.Where("entry_date < ?", beforeDate)
	}
	if err := query.Order("entry_date DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SearchEntries does a case-insensitive substring match on content and highlight.
func (r *EntryRepository) SearchEntries(ctx context.Context, userID uint, query string, limit int) ([]model.Entry, error) {
	var entries []model.Entry
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(content) LIKE ? OR LOWER(highlight) LIKE ?", pattern, pattern).
		Order("entry_date DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if err := r.AttachTags(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *EntryRepository) GetHeatmap(ctx context.Context, userID uint, startDate, endDate string) ([]model.HeatmapPoint, error) {
	points := []model.HeatmapPoint{}
	err := r.DB.WithContext(ctx).
		Model(&model.Entry{}).
		Select("entry_date AS date, mood, energy, sleep_hours AS sleep").
		Where("user_id = ? AND entry_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("entry_date ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
