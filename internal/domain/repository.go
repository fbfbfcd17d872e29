// Package domain 定义领域模型和接口
package domain

import (
	"context"

	"github.com/haierkeys/chrono-journal-service/pkg/timex"
)

// EntryRepository 日志条目仓储接口
// 所有查询都限定在 uid 所属的条目内，不存在或不属于该用户时返回 nil, nil
type EntryRepository interface {
	// Create 创建条目
	Create(ctx context.Context, entry *Entry) (*Entry, error)

	// GetByID 根据ID获取条目
	GetByID(ctx context.Context, id, uid string) (*Entry, error)

	// List 按条件分页获取条目，date DESC, created_at DESC, id DESC
	List(ctx context.Context, uid string, filter EntryFilter, page Pagination) ([]*Entry, error)

	// Count 统计满足条件的条目数
	Count(ctx context.Context, uid string, filter EntryFilter) (int64, error)

	// ListByDateRange 获取闭区间内全部条目，date ASC, created_at ASC, id ASC
	ListByDateRange(ctx context.Context, uid string, start, end timex.Date) ([]*Entry, error)

	// Update 部分更新条目
	Update(ctx context.Context, id, uid string, patch EntryPatch) (*Entry, error)

	// SetNotable 设置 notable 标记
	SetNotable(ctx context.Context, id, uid string, notable bool) (*Entry, error)

	// Delete 物理删除条目，返回是否删除了记录
	Delete(ctx context.Context, id, uid string) (bool, error)
}

// Maintainer 数据库维护
type Maintainer interface {
	// Optimize 刷新查询规划器统计信息
	Optimize(ctx context.Context) error
}
