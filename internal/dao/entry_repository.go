// Package dao 实现数据访问层
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/domain"
	"github.com/haierkeys/chrono-journal-service/internal/model"
	"github.com/haierkeys/chrono-journal-service/pkg/mood"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entryRepository 实现 domain.EntryRepository 接口
type entryRepository struct {
	dao *Dao
}

// NewEntryRepository 创建 EntryRepository 实例
func NewEntryRepository(dao *Dao) domain.EntryRepository {
	return &entryRepository{dao: dao}
}

// now timestamps are stored in UTC at millisecond precision on every driver
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// moodToken quoted form of m inside the moods JSON text
func moodToken(m mood.Mood) string {
	return `%"` + string(m) + `"%`
}

func encodeMoods(moods []mood.Mood) (string, error) {
	data, err := sonic.Marshal(mood.Strings(moods))
	if err != nil {
		return "", errors.Wrap(err, "encode moods")
	}
	return string(data), nil
}

func decodeMoods(s string) ([]mood.Mood, error) {
	var ss []string
	if s != "" {
		if err := sonic.UnmarshalString(s, &ss); err != nil {
			return nil, errors.Wrap(err, "decode moods")
		}
	}
	return mood.FromStrings(ss), nil
}

func encodeJSON(v any) (datatypes.JSON, error) {
	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// toDomain 将数据库模型转换为领域模型
func (r *entryRepository) toDomain(m *model.Entry) (*domain.Entry, error) {
	if m == nil {
		return nil, nil
	}
	date, err := timex.ParseDate(m.Date)
	if err != nil {
		return nil, errors.Wrapf(err, "entry %s", m.ID)
	}
	moods, err := decodeMoods(m.Moods)
	if err != nil {
		return nil, errors.Wrapf(err, "entry %s", m.ID)
	}
	e := &domain.Entry{
		ID:         m.ID,
		UID:        m.UID,
		Date:       date,
		Title:      m.Title,
		Content:    json.RawMessage(m.Content),
		Moods:      moods,
		Notable:    m.IsNotable,
		Feedback:   m.Feedback,
		AnalyzedAt: m.AnalyzedAt,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
	if m.DominantMood != nil {
		if dm, ok := mood.ParseMood(*m.DominantMood); ok {
			e.DominantMood = dm
		}
	}
	if len(m.SuggestedBullets) > 0 && string(m.SuggestedBullets) != "null" {
		if err := sonic.Unmarshal(m.SuggestedBullets, &e.SuggestedBullets); err != nil {
			return nil, errors.Wrapf(err, "entry %s suggested bullets", m.ID)
		}
	}
	if len(m.NotableSuggestion) > 0 && string(m.NotableSuggestion) != "null" {
		ns := &domain.NotableSuggestion{}
		if err := sonic.Unmarshal(m.NotableSuggestion, ns); err != nil {
			return nil, errors.Wrapf(err, "entry %s notable suggestion", m.ID)
		}
		e.NotableSuggestion = ns
	}
	return e, nil
}

// toModel 将领域模型转换为数据库模型
func (r *entryRepository) toModel(e *domain.Entry) (*model.Entry, error) {
	moods, err := encodeMoods(e.Moods)
	if err != nil {
		return nil, err
	}
	m := &model.Entry{
		ID:         e.ID,
		UID:        e.UID,
		Date:       e.Date.String(),
		Title:      e.Title,
		Content:    datatypes.JSON(e.Content),
		Moods:      moods,
		IsNotable:  e.Notable,
		Feedback:   e.Feedback,
		AnalyzedAt: e.AnalyzedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.HasDominantMood() {
		dm := string(e.DominantMood)
		m.DominantMood = &dm
	}
	if e.SuggestedBullets != nil {
		if m.SuggestedBullets, err = encodeJSON(e.SuggestedBullets); err != nil {
			return nil, errors.Wrap(err, "encode suggested bullets")
		}
	}
	if e.NotableSuggestion != nil {
		if m.NotableSuggestion, err = encodeJSON(e.NotableSuggestion); err != nil {
			return nil, errors.Wrap(err, "encode notable suggestion")
		}
	}
	return m, nil
}

func (r *entryRepository) toDomainList(ms []*model.Entry) ([]*domain.Entry, error) {
	out := make([]*domain.Entry, 0, len(ms))
	for _, m := range ms {
		e, err := r.toDomain(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// scoped 限定为 uid 所属条目的查询
func scoped(db *gorm.DB, uid string) *gorm.DB {
	return db.Model(&model.Entry{}).Where(clause.Eq{Column: clause.Column{Name: "user_id"}, Value: uid})
}

func byID(db *gorm.DB, id, uid string) *gorm.DB {
	return scoped(db, uid).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id})
}

// applyFilter 追加过滤条件，条件之间为与关系
func applyFilter(q *gorm.DB, f domain.EntryFilter) *gorm.DB {
	if f.Start != nil {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "date"}, Value: f.Start.String()})
	}
	if f.End != nil {
		q = q.Where(clause.Lte{Column: clause.Column{Name: "date"}, Value: f.End.String()})
	}
	if f.Mood != "" {
		q = q.Where(clause.Like{Column: clause.Column{Name: "moods"}, Value: moodToken(f.Mood)})
	}
	if f.DominantMood != "" {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "dominant_mood"}, Value: string(f.DominantMood)})
	}
	if f.Notable != nil {
		q = q.Where(clause.Eq{Column: clause.Column{Name: "is_notable"}, Value: *f.Notable})
	}
	return q
}

func orderBy(q *gorm.DB, desc bool) *gorm.DB {
	return q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "date"}, Desc: desc},
		{Column: clause.Column{Name: "created_at"}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}})
}

// first 读取单条，不存在时返回 nil, nil
func (r *entryRepository) first(db *gorm.DB, id, uid string) (*domain.Entry, error) {
	var m model.Entry
	err := byID(db, id, uid).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get entry")
	}
	return r.toDomain(&m)
}

// Create 创建条目
func (r *entryRepository) Create(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	e := *entry
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Moods == nil {
		e.Moods = []mood.Mood{}
	}
	ts := now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = ts
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	m, err := r.toModel(&e)
	if err != nil {
		return nil, err
	}

	var out *domain.Entry
	err = r.dao.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return errors.Wrap(err, "create entry")
		}
		var err error
		out, err = r.first(tx, e.ID, e.UID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID 根据ID获取条目
func (r *entryRepository) GetByID(ctx context.Context, id, uid string) (*domain.Entry, error) {
	return r.first(r.dao.Db.WithContext(ctx), id, uid)
}

// List 按条件分页获取条目
func (r *entryRepository) List(ctx context.Context, uid string, filter domain.EntryFilter, page domain.Pagination) ([]*domain.Entry, error) {
	q := orderBy(applyFilter(scoped(r.dao.Db.WithContext(ctx), uid), filter), true)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if page.Offset > 0 {
		q = q.Offset(page.Offset)
	}

	var ms []*model.Entry
	if err := q.Find(&ms).Error; err != nil {
		return nil, errors.Wrap(err, "list entries")
	}
	return r.toDomainList(ms)
}

// Count 统计满足条件的条目数
func (r *entryRepository) Count(ctx context.Context, uid string, filter domain.EntryFilter) (int64, error) {
	var total int64
	if err := applyFilter(scoped(r.dao.Db.WithContext(ctx), uid), filter).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count entries")
	}
	return total, nil
}

// ListByDateRange 获取闭区间内全部条目，升序
func (r *entryRepository) ListByDateRange(ctx context.Context, uid string, start, end timex.Date) ([]*domain.Entry, error) {
	filter := domain.EntryFilter{Start: &start, End: &end}
	var ms []*model.Entry
	if err := orderBy(applyFilter(scoped(r.dao.Db.WithContext(ctx), uid), filter), false).Find(&ms).Error; err != nil {
		return nil, errors.Wrap(err, "list entries by date range")
	}
	return r.toDomainList(ms)
}

// patchColumns 将部分更新转换为列映射
func patchColumns(p domain.EntryPatch) (map[string]any, error) {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Date != nil {
		cols["date"] = p.Date.String()
	}
	if p.Content != nil {
		cols["content"] = datatypes.JSON(p.Content)
		moods, err := encodeMoods(p.Moods)
		if err != nil {
			return nil, err
		}
		cols["moods"] = moods
		if p.DominantMood != nil && *p.DominantMood != "" {
			cols["dominant_mood"] = string(*p.DominantMood)
		} else {
			cols["dominant_mood"] = gorm.Expr("NULL")
		}
	}
	if p.Notable != nil {
		cols["is_notable"] = *p.Notable
	}
	if p.Feedback != nil {
		cols["feedback"] = *p.Feedback
	}
	if p.SuggestedBullets != nil {
		v, err := encodeJSON(*p.SuggestedBullets)
		if err != nil {
			return nil, errors.Wrap(err, "encode suggested bullets")
		}
		cols["suggested_bullets"] = v
	}
	if p.NotableSuggestion != nil {
		v, err := encodeJSON(p.NotableSuggestion)
		if err != nil {
			return nil, errors.Wrap(err, "encode notable suggestion")
		}
		cols["notable_suggestion"] = v
	}
	if p.AnalyzedAt != nil {
		cols["analyzed_at"] = p.AnalyzedAt.UTC()
	}
	return cols, nil
}

// update 在事务内更新并重新读取，不存在返回 nil, nil
func (r *entryRepository) update(ctx context.Context, id, uid string, cols map[string]any) (*domain.Entry, error) {
	var out *domain.Entry
	err := r.dao.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := r.first(tx, id, uid)
		if err != nil || existing == nil {
			return err
		}
		ts := now()
		if !ts.After(existing.UpdatedAt) {
			ts = existing.UpdatedAt.Add(time.Millisecond)
		}
		cols["updated_at"] = ts
		if err := byID(tx, id, uid).Updates(cols).Error; err != nil {
			return errors.Wrap(err, "update entry")
		}
		out, err = r.first(tx, id, uid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update 部分更新条目
func (r *entryRepository) Update(ctx context.Context, id, uid string, patch domain.EntryPatch) (*domain.Entry, error) {
	cols, err := patchColumns(patch)
	if err != nil {
		return nil, err
	}
	return r.update(ctx, id, uid, cols)
}

// SetNotable 设置 notable 标记
func (r *entryRepository) SetNotable(ctx context.Context, id, uid string, notable bool) (*domain.Entry, error) {
	return r.update(ctx, id, uid, map[string]any{"is_notable": notable})
}

// Delete 物理删除条目
func (r *entryRepository) Delete(ctx context.Context, id, uid string) (bool, error) {
	var affected int64
	err := r.dao.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := byID(tx, id, uid).Delete(&model.Entry{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete entry")
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
