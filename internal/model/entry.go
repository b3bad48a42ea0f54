package model

import (
	"time"
)

// DateLayout is the calendar-day format used for entry dates. Dates are
// UTC days; no user-local timezone is applied.
const DateLayout = "2006-01-02"

// Entry is one day's journal record for a user. A user has at most one
// entry per entry_date.
type Entry struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	UserID             uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_entries_user_date"`
	EntryDate          string    `json:"entry_date" gorm:"type:varchar(10);not null;uniqueIndex:idx_entries_user_date"`
	Content            *string   `json:"content"`
	Mood               *int      `json:"mood" gorm:"check:mood IS NULL OR (mood >= 0 AND mood <= 10)"`
	Energy             *int      `json:"energy" gorm:"check:energy IS NULL OR (energy >= 0 AND energy <= 10)"`
	SleepHours         *float64  `json:"sleep_hours" gorm:"check:sleep_hours IS NULL OR sleep_hours >= 0"`
	SleepQuality       *int      `json:"sleep_quality" gorm:"check:sleep_quality IS NULL OR (sleep_quality >= 0 AND sleep_quality <= 10)"`
	Stress             *int      `json:"stress" gorm:"check:stress IS NULL OR (stress >= 0 AND stress <= 10)"`
	Focus              *int      `json:"focus" gorm:"check:focus IS NULL OR (focus >= 0 AND focus <= 10)"`
	PhysicalDiscomfort *int      `json:"physical_discomfort" gorm:"check:physical_discomfort IS NULL OR (physical_discomfort >= 0 AND physical_discomfort <= 10)"`
	Highlight          *string   `json:"highlight"`
	IsPrivate          bool      `json:"is_private" gorm:"not null;default:false"`
	IsFavorite         bool      `json:"is_favorite" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Tags     []Tag          `json:"tags" gorm:"-"`
	Insights []Insight      `json:"insights" gorm:"-"`
	Emotions []EntryEmotion `json:"emotions" gorm:"-"`
}

// ClearRelations sets the loaded relations to empty, non-nil slices so
// they encode as [] rather than null.
func (e *Entry) ClearRelations() {
	e.Tags = []Tag{}
	e.Insights = []Insight{}
	e.Emotions = []EntryEmotion{}
}

// EntryTag links an entry to a tag. The pair is unique.
type EntryTag struct {
	ID      uint `json:"id" gorm:"primarykey"`
	EntryID uint `json:"entry_id" gorm:"not null;uniqueIndex:idx_entry_tags_pair"`
	TagID   uint `json:"tag_id" gorm:"not null;uniqueIndex:idx_entry_tags_pair;index"`
}

// EntryEmotion is an emotion label detected by the latest insight generation.
type EntryEmotion struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	EntryID   uint   `json:"entry_id" gorm:"not null;index"`
	Emotion   string `json:"emotion" gorm:"not null"`
	Intensity int    `json:"intensity" gorm:"not null;default:5"`
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	StartDate string
	EndDate   string
	TagID     *uint
	MinMood   *int
	MaxMood   *int
	Limit     int
	Offset    int
}

// HeatmapPoint is one day in the heatmap view.
type HeatmapPoint struct {
	Date   string   `json:"date"`
	Mood   *int     `json:"mood"`
	Energy *int     `json:"energy"`
	Sleep  *float64 `json:"sleep"`
}
