package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/repository"
)

const (
	defaultTagColor = "#6366f1"
	defaultTagIcon  = "tag"
)

// TagInput creates a tag or patches one; empty optional fields keep their
// current (or default) value.
type TagInput struct {
	Name  string `json:"name" validate:"omitempty,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"omitempty,max=50"`
}

// TagServiceInterface defines the tag operations.
type TagServiceInterface interface {
	ListTags(ctx context.Context, userID uint) ([]model.Tag, error)
	CreateTag(ctx context.Context, userID uint, in TagInput) (*model.Tag, error)
	UpdateTag(ctx context.Context, userID, id uint, in TagInput) (*model.Tag, error)
	DeleteTag(ctx context.Context, userID, id uint) error
	GetTagStats(ctx context.Context, userID uint) ([]model.TagUsage, error)
}

// TagService implements TagServiceInterface.
type TagService struct {
	TagRepo repository.TagRepositoryInterface
	Stats   *StatsCache
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repository.TagRepositoryInterface, stats *StatsCache) TagServiceInterface {
	return &TagService{TagRepo: tagRepo, Stats: stats}
}

func normalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *TagService) ListTags(ctx context.Context, userID uint) ([]model.Tag, error) {
	tags, err := s.TagRepo.ListVisibleTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return tags, nil
}

// CreateTag adds a custom tag. Names are unique per user, case-insensitively,
// including the system tags.
func (s *TagService) CreateTag(ctx context.Context, userID uint, in TagInput) (*model.Tag, error) {
	name := normalizeTagName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	exists, err := s.TagRepo.TagNameExists(ctx, userID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check tag name: %w", err)
	}
	if exists {
		return nil, ErrTagExists
	}

	tag := &model.Tag{UserID: &userID, Name: name, Color: defaultTagColor, Icon: defaultTagIcon}
	if in.Color != "" {
		tag.Color = in.Color
	}
	if in.Icon != "" {
		tag.Icon = in.Icon
	}
	if err := s.TagRepo.CreateTag(ctx, tag); repository.IsDuplicate(err) {
		return nil, ErrTagExists
	} else if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// UpdateTag edits one of the user's own custom tags.
func (s *TagService) UpdateTag(ctx context.Context, userID, id uint, in TagInput) (*model.Tag, error) {
	tag, err := s.TagRepo.GetOwnedTag(ctx, userID, id)
	if repository.IsNotFound(err) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	if name := normalizeTagName(in.Name); name != "" && name != tag.Name {
		exists, err := s.TagRepo.TagNameExists(ctx, userID, name, tag.ID)
		if err != nil {
			return nil, fmt.Errorf("check tag name: %w", err)
		}
		if exists {
			return nil, ErrTagExists
		}
		tag.Name = name
	}
	if in.Color != "" {
		tag.Color = in.Color
	}
	if in.Icon != "" {
		tag.Icon = in.Icon
	}

	if err := s.TagRepo.UpdateTag(ctx, tag); repository.IsDuplicate(err) {
		return nil, ErrTagExists
	} else if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	s.Stats.InvalidateUser(userID)
	return tag, nil
}

// DeleteTag removes one of the user's own custom tags and its entry links.
func (s *TagService) DeleteTag(ctx context.Context, userID, id uint) error {
	err := s.TagRepo.DeleteTag(ctx, userID, id)
	if repository.IsNotFound(err) {
		return ErrTagNotFound
	}
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	s.Stats.InvalidateUser(userID)
	return nil
}

func (s *TagService) GetTagStats(ctx context.Context, userID uint) ([]model.TagUsage, error) {
	usage, err := s.TagRepo.GetTagUsage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tag usage: %w", err)
	}
	if usage == nil {
		usage = []model.TagUsage{}
	}
	return usage, nil
}
