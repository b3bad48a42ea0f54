package model

import "time"

// Tag is either a system tag (UserID nil) or a custom tag owned by a user.
// Names are stored lower-cased and are unique per owner.
type Tag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    *uint     `json:"user_id" gorm:"index;uniqueIndex:idx_tags_user_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	Color     string    `json:"color" gorm:"not null;default:'#6366f1'"`
	Icon      string    `json:"icon" gorm:"not null;default:'tag'"`
	IsSystem  bool      `json:"is_system" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount is a tag with the number of entries it is attached to.
type TagCount struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// TagUsage is the per-tag usage report returned by the tag stats endpoint.
type TagUsage struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	UsageCount int    `json:"usage_count"`
}
