// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"encoding/json"
	"time"

	"github.com/haierkeys/chrono-journal-service/pkg/timex"
)

// EntryDTO Entry data transfer object
// EntryDTO 日志条目数据传输对象，dominantMood 不存在时为 null
type EntryDTO struct {
	ID                string                `json:"id"`
	Date              timex.Date            `json:"date"`
	Title             *string               `json:"title"`
	Content           json.RawMessage       `json:"content"`
	Moods             []string              `json:"moods"`
	DominantMood      *string               `json:"dominantMood"`
	Notable           bool                  `json:"notable"`
	Feedback          *string               `json:"feedback"`
	SuggestedBullets  []string              `json:"suggestedBullets"`
	NotableSuggestion *NotableSuggestionDTO `json:"notableSuggestion"`
	AnalyzedAt        *time.Time            `json:"analyzedAt"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

// NotableSuggestionDTO 外部分析给出的 notable 建议
type NotableSuggestionDTO struct {
	Suggested  bool   `json:"suggested"`
	Reasoning  string `json:"reasoning" binding:"max=4096"`
	Confidence string `json:"confidence" binding:"required,oneof=high medium low"`
}

// EntryCreateRequest Request parameters for creating an entry
// EntryCreateRequest 创建日志条目的请求参数
type EntryCreateRequest struct {
	Date    string          `json:"date" form:"date" binding:"required,date"`
	Title   *string         `json:"title" form:"title" binding:"omitempty,max=512"`
	Content json.RawMessage `json:"content" binding:"required"`
	Notable *bool           `json:"notable" form:"notable"`
}

// EntryUpdateRequest Partial update, absent fields stay unchanged
// EntryUpdateRequest 部分更新，未提供的字段保持不变
type EntryUpdateRequest struct {
	Title             *string               `json:"title" binding:"omitempty,max=512"`
	Date              *string               `json:"date" binding:"omitempty,date"`
	Content           json.RawMessage       `json:"content"`
	Notable           *bool                 `json:"notable"`
	Feedback          *string               `json:"feedback"`
	SuggestedBullets  *[]string             `json:"suggestedBullets"`
	NotableSuggestion *NotableSuggestionDTO `json:"notableSuggestion" binding:"omitempty"`
	AnalyzedAt        *time.Time            `json:"analyzedAt"`
}

// EntryListRequest Query parameters for listing entries
// EntryListRequest 列表查询参数，条件之间为与关系
type EntryListRequest struct {
	StartDate    string `form:"startDate" binding:"omitempty,date"`
	EndDate      string `form:"endDate" binding:"omitempty,date"`
	Mood         string `form:"mood" binding:"omitempty,mood"`
	DominantMood string `form:"dominantMood" binding:"omitempty,mood"`
	Notable      *bool  `form:"notable"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"offset" binding:"omitempty,min=0"`
}

// EntryNotableRequest 设置 notable 标记
type EntryNotableRequest struct {
	Notable *bool `json:"notable" form:"notable" binding:"required"`
}

// HeatmapRequest 热力图查询区间，两端都必填
type HeatmapRequest struct {
	StartDate string `form:"startDate" binding:"required,date"`
	EndDate   string `form:"endDate" binding:"required,date"`
}

// HeatmapPointDTO 某一天的热力图数据
type HeatmapPointDTO struct {
	Date         timex.Date `json:"date"`
	Moods        []string   `json:"moods"`
	DominantMood *string    `json:"dominantMood"`
	EntryCount   int        `json:"entryCount"`
	HasNotable   bool       `json:"hasNotable"`
}

// EntryRangeRequest 日历视图查询区间，两端都必填
type EntryRangeRequest struct {
	StartDate string `form:"startDate" binding:"required,date"`
	EndDate   string `form:"endDate" binding:"required,date"`
}

// BragRequest 成就文档查询区间，两端可选
type BragRequest struct {
	StartDate string `form:"startDate" binding:"omitempty,date"`
	EndDate   string `form:"endDate" binding:"omitempty,date"`
}

// BragDocumentDTO notable 条目及其主导情绪计数
type BragDocumentDTO struct {
	StartDate  *timex.Date    `json:"startDate"`
	EndDate    *timex.Date    `json:"endDate"`
	Total      int            `json:"total"`
	MoodCounts map[string]int `json:"moodCounts"`
	Entries    []*EntryDTO    `json:"entries"`
}

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  string    `json:"database,omitempty"`
}
