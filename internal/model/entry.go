package model

import (
	"time"

	"gorm.io/datatypes"
)

// Entry mapped from table <entry>, prefixed by the naming strategy
// Moods is the JSON text of a string array; membership is matched on the quoted token
// Moods 为字符串数组的 JSON 文本，按带引号的词匹配
type Entry struct {
	ID                string         `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UID               string         `gorm:"column:user_id;type:varchar(128);not null;index:idx_entry_user_date,priority:1" json:"userId"`
	Date              string         `gorm:"column:date;type:varchar(10);not null;index:idx_entry_user_date,priority:2" json:"date"`
	Title             *string        `gorm:"column:title;type:varchar(512)" json:"title"`
	Content           datatypes.JSON `gorm:"column:content;not null" json:"content"`
	Moods             string         `gorm:"column:moods;type:text;not null" json:"moods"`
	DominantMood      *string        `gorm:"column:dominant_mood;type:varchar(16)" json:"dominantMood"`
	IsNotable         bool           `gorm:"column:is_notable;not null;default:false" json:"isNotable"`
	Feedback          *string        `gorm:"column:feedback;type:text" json:"feedback"`
	SuggestedBullets  datatypes.JSON `gorm:"column:suggested_bullets" json:"suggestedBullets"`
	NotableSuggestion datatypes.JSON `gorm:"column:notable_suggestion" json:"notableSuggestion"`
	AnalyzedAt        *time.Time     `gorm:"column:analyzed_at" json:"analyzedAt"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false" json:"updatedAt"`
}
