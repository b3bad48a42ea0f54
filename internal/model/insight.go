package model

import (
	"time"

	"gorm.io/datatypes"
)

// Insight types.
const (
	InsightDailySummary  = "daily_summary"
	InsightWeeklySummary = "weekly_summary"
)

// Insight is an immutable AI-generated record. Content holds the structured
// response, Metadata holds generation details such as the timestamp.
type Insight struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	EntryID     *uint          `json:"entry_id" gorm:"index"`
	InsightType string         `json:"insight_type" gorm:"type:varchar(32);not null"`
	Content     datatypes.JSON `json:"content"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EmotionSummary aggregates emotion labels over a window.
type EmotionSummary struct {
	Emotion      string  `json:"emotion"`
	Count        int     `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"`
}
