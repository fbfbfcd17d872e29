// Package domain 定义领域模型和接口
package domain

import (
	"encoding/json"
	"time"

	"github.com/haierkeys/chrono-journal-service/pkg/mood"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"
)

// Confidence 分析结果的置信度
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// NotableSuggestion 外部分析给出的 notable 建议，仅存储不计算
type NotableSuggestion struct {
	Suggested  bool       `json:"suggested"`
	Reasoning  string     `json:"reasoning"`
	Confidence Confidence `json:"confidence"`
}

// Entry 日志条目领域模型
// Moods 与 DominantMood 由 Content 派生，DominantMood 为空表示不存在
type Entry struct {
	ID                string
	UID               string
	Date              timex.Date
	Title             *string
	Content           json.RawMessage
	Moods             []mood.Mood
	DominantMood      mood.Mood
	Notable           bool
	Feedback          *string
	SuggestedBullets  []string
	NotableSuggestion *NotableSuggestion
	AnalyzedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasDominantMood 是否存在主导情绪
func (e *Entry) HasDominantMood() bool {
	return e.DominantMood != ""
}

// EntryFilter 列表查询条件，所有条件为与关系，零值表示不过滤
type EntryFilter struct {
	Start        *timex.Date
	End          *timex.Date
	Mood         mood.Mood
	DominantMood mood.Mood
	Notable      *bool
}

// Pagination 分页参数，Limit <= 0 表示不限制
type Pagination struct {
	Limit  int
	Offset int
}

// EntryPatch 部分更新，nil 字段保持不变
// Content 非 nil 时 Moods 与 DominantMood 一并覆盖
type EntryPatch struct {
	Title             *string
	Date              *timex.Date
	Content           json.RawMessage
	Moods             []mood.Mood
	DominantMood      *mood.Mood
	Notable           *bool
	Feedback          *string
	SuggestedBullets  *[]string
	NotableSuggestion *NotableSuggestion
	AnalyzedAt        *time.Time
}

// IsEmpty 没有任何调用方字段被设置
func (p EntryPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Date == nil &&
		p.Content == nil &&
		p.Notable == nil &&
		p.Feedback == nil &&
		p.SuggestedBullets == nil &&
		p.NotableSuggestion == nil &&
		p.AnalyzedAt == nil
}

// HeatmapPoint 热力图中某一天的汇总
type HeatmapPoint struct {
	Date         timex.Date
	Moods        []mood.Mood
	DominantMood mood.Mood
	EntryCount   int
	HasNotable   bool
}

// BragDocument 指定区间内的 notable 条目及其主导情绪计数
type BragDocument struct {
	Start      *timex.Date
	End        *timex.Date
	Entries    []*Entry
	MoodCounts map[mood.Mood]int
}
