package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// TagRepositoryInterface defines the persistence operations for tags.
type TagRepositoryInterface interface {
	ListVisibleTags(ctx context.Context, userID uint) ([]model.Tag, error)
	GetOwnedTag(ctx context.Context, userID, id uint) (*model.Tag, error)
	TagNameExists(ctx context.Context, userID uint, name string, excludeID uint) (bool, error)
	CreateTag(ctx context.Context, tag *model.Tag) error
	UpdateTag(ctx context.Context, tag *model.Tag) error
	DeleteTag(ctx context.Context, userID, id uint) error

	// Analytics
	GetTagUsage(ctx context.Context, userID uint) ([]model.TagUsage, error)
	GetTopTags(ctx context.Context, userID uint, startDate, endDate string, limit int) ([]model.TagCount, error)
}

// TagRepository implements TagRepositoryInterface.
type TagRepository struct {
	DB *gorm.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *gorm.DB) TagRepositoryInterface {
	return &TagRepository{DB: db}
}

// visibleTo restricts a query on tags to system tags plus userID's own.
func visibleTo(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("tags.user_id IS NULL OR tags.user_id = ?", userID)
}

// ListVisibleTags returns system tags first, then the user's tags, each by name.
func (r *TagRepository) ListVisibleTags(ctx context.Context, userID uint) ([]model.Tag, error) {
	var tags []model.Tag
	err := visibleTo(r.DB.WithContext(ctx), userID).
		Order("is_system DESC").
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetOwnedTag returns a custom tag owned by userID. System tags and other
// users' tags yield gorm.ErrRecordNotFound.
func (r *TagRepository) GetOwnedTag(ctx context.Context, userID, id uint) (*model.Tag, error) {
	var tag model.Tag
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_system = ?", id, userID, false).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// TagNameExists checks the case-insensitive name against system and own tags.
func (r *TagRepository) TagNameExists(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.DB.WithContext(ctx).Model(&model.Tag{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Where("user_id IS NULL OR user_id = ?", userID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TagRepository) CreateTag(ctx context.Context, tag *model.Tag) error {
	return r.DB.WithContext(ctx).Create(tag).Error
}

func (r *TagRepository) UpdateTag(ctx context.Context, tag *model.Tag) error {
	return r.DB.WithContext(ctx).
		Model(tag).
		Select("name", "color", "icon").
		Updates(tag).Error
}

// DeleteTag removes an owned custom tag and its entry links.
func (r *TagRepository) DeleteTag(ctx context.Context, userID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.EntryTag{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ? AND is_system = ?", id, userID, false).Delete(&model.Tag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetTagUsage counts, per visible tag, how many of the user's entries carry it.
func (r *TagRepository) GetTagUsage(ctx context.Context, userID uint) ([]model.TagUsage, error) {
	var usage []model.TagUsage
	err := r.DB.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.color, tags.icon, COUNT(entries.id) AS usage_count").
		Joins("LEFT JOIN entry_tags ON entry_tags.tag_id = tags.id").
		Joins("LEFT JOIN entries ON entries.id = entry_tags.entry_id AND entries.user_id = ?", userID).
		Where("tags.user_id IS NULL OR tags.user_id = ?", userID).
		Group("tags.id, tags.name, tags.color, tags.icon").
		Order("usage_count DESC").
		Order("tags.name ASC").
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// GetTopTags returns the most used tags on the user's entries dated within
// [startDate, endDate].
func (r *TagRepository) GetTopTags(ctx context.Context, userID uint, startDate, endDate string, limit int) ([]model.TagCount, error) {
	top := []model.TagCount{}
	err := r.DB.WithContext(ctx).
		Table("entry_tags").
		Select("tags.name, tags.color, COUNT(*) AS count").
		Joins("JOIN entries ON entries.id = entry_tags.entry_id").
		Joins("JOIN tags ON tags.id = entry_tags.tag_id").
		Where("entries.user_id = ? AND entries.entry_date BETWEEN ? AND ?", userID, startDate, endDate).
		Group("tags.id, tags.name, tags.color").
		Order("count DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}
	return top, nil
}
