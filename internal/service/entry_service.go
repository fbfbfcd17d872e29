// Package service 实现业务逻辑层
package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/domain"
	"github.com/haierkeys/chrono-journal-service/internal/dto"
	"github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"
	"github.com/haierkeys/chrono-journal-service/pkg/logger"
	"github.com/haierkeys/chrono-journal-service/pkg/mood"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// EntryService 定义日志条目业务服务接口
// 查询不到或不属于 uid 的条目返回 nil, nil，由调用方决定如何呈现
type EntryService interface {
	// Create 创建条目，情绪由内容派生
	Create(ctx context.Context, uid string, params *dto.EntryCreateRequest) (*dto.EntryDTO, error)

	// Get 获取单条条目
	Get(ctx context.Context, uid, id string) (*dto.EntryDTO, error)

	// List 按条件分页获取条目，返回满足条件的总数
	List(ctx context.Context, uid string, params *dto.EntryListRequest, pager *app.Pager) ([]*dto.EntryDTO, int, error)

	// ListRange 获取闭区间内全部条目，按日期升序
	ListRange(ctx context.Context, uid string, start, end timex.Date) ([]*dto.EntryDTO, error)

	// Update 部分更新条目，提供内容时重新计算情绪
	Update(ctx context.Context, uid, id string, params *dto.EntryUpdateRequest) (*dto.EntryDTO, error)

	// SetNotable 设置 notable 标记
	SetNotable(ctx context.Context, uid, id string, notable bool) (*dto.EntryDTO, error)

	// Delete 删除条目，返回是否删除了记录
	Delete(ctx context.Context, uid, id string) (bool, error)

	// Heatmap 按日期聚合的热力图
	Heatmap(ctx context.Context, uid string, params *dto.HeatmapRequest) ([]*dto.HeatmapPointDTO, error)

	// BragDocument 区间内的 notable 条目
	BragDocument(ctx context.Context, uid string, params *dto.BragRequest) (*dto.BragDocumentDTO, error)
}

// heatmapQueryTimeout 合并后的热力图查询的超时时间
const heatmapQueryTimeout = 30 * time.Second

// Writer 按 uid 串行执行写操作
type Writer interface {
	Execute(ctx context.Context, uid string, fn func() error) error
}

// EntryServiceOption 可选配置
type EntryServiceOption func(*entryService)

// WithWriter 写操作经由 w 排队执行，未设置时直接写入
func WithWriter(w Writer) EntryServiceOption {
	return func(s *entryService) {
		s.writer = w
	}
}

type entryService struct {
	entryRepo domain.EntryRepository
	writer    Writer
	sf        *singleflight.Group
	// generations 每个 uid 的写入代数，写入成功后递增，作为合并读请求的键的一部分
	generations sync.Map
	config    *ServiceConfig
	logger    *zap.Logger
}

// NewEntryService 创建 EntryService 实例
func NewEntryService(entryRepo domain.EntryRepository, config *ServiceConfig, lg *zap.Logger, opts ...EntryServiceOption) EntryService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &entryService{
		entryRepo: entryRepo,
		sf:        &singleflight.Group{},
		config:    config,
		logger:    lg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// write 执行一次写操作，配置了 Writer 时按 uid 排队
func (s *entryService) write(ctx context.Context, uid string, fn func() error) error {
	var err error
	if s.writer == nil {
		err = fn()
	} else {
		err = s.writer.Execute(ctx, uid, fn)
	}
	if err == nil {
		s.generation(uid).Add(1)
	}
	return err
}

func (s *entryService) generation(uid string) *atomic.Uint64 {
	v, _ := s.generations.LoadOrStore(uid, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

// domainToDTO 将领域模型转换为 DTO
func (s *entryService) domainToDTO(e *domain.Entry) *dto.EntryDTO {
	if e == nil {
		return nil
	}
	out := &dto.EntryDTO{
		ID:               e.ID,
		Date:             e.Date,
		Title:            e.Title,
		Content:          e.Content,
		Moods:            mood.Strings(e.Moods),
		Notable:          e.Notable,
		Feedback:         e.Feedback,
		SuggestedBullets: e.SuggestedBullets,
		AnalyzedAt:       e.AnalyzedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.HasDominantMood() {
		dm := e.DominantMood.String()
		out.DominantMood = &dm
	}
	if e.NotableSuggestion != nil {
		out.NotableSuggestion = &dto.NotableSuggestionDTO{
			Suggested:  e.NotableSuggestion.Suggested,
			Reasoning:  e.NotableSuggestion.Reasoning,
			Confidence: string(e.NotableSuggestion.Confidence),
		}
	}
	return out
}

func (s *entryService) domainListToDTO(entries []*domain.Entry) []*dto.EntryDTO {
	out := make([]*dto.EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.domainToDTO(e))
	}
	return out
}

// parseDate 解析日期，失败返回校验错误
func parseDate(field, s string) (timex.Date, error) {
	d, err := timex.ParseDate(s)
	if err != nil {
		return timex.Date{}, code.ErrorEntryDateInvalid.WithDetails(field + ": " + err.Error())
	}
	return d, nil
}

// parseRange 解析可选的闭区间，两端都提供时要求 start <= end
func parseRange(startStr, endStr string) (start, end *timex.Date, err error) {
	if startStr != "" {
		d, err := parseDate("startDate", startStr)
		if err != nil {
			return nil, nil, err
		}
		start = &d
	}
	if endStr != "" {
		d, err := parseDate("endDate", endStr)
		if err != nil {
			return nil, nil, err
		}
		end = &d
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, code.ErrorEntryDateRange.WithDetails(start.String() + " > " + end.String())
	}
	return start, end, nil
}

// extract 从内容派生情绪，null、无法解码或嵌套过深的内容为校验错误
func extract(content []byte) (mood.Result, error) {
	if string(bytes.TrimSpace(content)) == "null" {
		return mood.Result{}, code.ErrorEntryContentInvalid.WithDetails("content must not be null")
	}
	res, err := mood.ProcessJSON(content)
	if err != nil {
		return mood.Result{}, code.ErrorEntryContentInvalid.WithDetails(err.Error())
	}
	return res, nil
}

func toNotableSuggestion(in *dto.NotableSuggestionDTO) (*domain.NotableSuggestion, error) {
	if in == nil {
		return nil, nil
	}
	c := domain.Confidence(in.Confidence)
	if !c.IsValid() {
		return nil, code.ErrorInvalidParams.WithDetails("notableSuggestion.confidence: " + in.Confidence)
	}
	return &domain.NotableSuggestion{
		Suggested:  in.Suggested,
		Reasoning:  in.Reasoning,
		Confidence: c,
	}, nil
}

// Create 创建条目
func (s *entryService) Create(ctx context.Context, uid string, params *dto.EntryCreateRequest) (*dto.EntryDTO, error) {
	date, err := parseDate("date", params.Date)
	if err != nil {
		return nil, err
	}
	res, err := extract(params.Content)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		UID:          uid,
		Date:         date,
		Title:        params.Title,
		Content:      params.Content,
		Moods:        res.Moods,
		DominantMood: res.Dominant,
	}
	if params.Notable != nil {
		entry.Notable = *params.Notable
	}

	var created *domain.Entry
	err = s.write(ctx, uid, func() (err error) {
		created, err = s.entryRepo.Create(ctx, entry)
		return err
	})
	if err != nil {
		return nil, writeError(s.logger, "EntryService.Create", uid, err)
	}

	s.logger.Debug("entry created",
		zap.String(logger.FieldUID, uid),
		zap.String(logger.FieldEntryID, created.ID),
		zap.String(logger.FieldDate, created.Date.String()),
	)
	return s.domainToDTO(created), nil
}

// Get 获取单条条目
func (s *entryService) Get(ctx context.Context, uid, id string) (*dto.EntryDTO, error) {
	e, err := s.entryRepo.GetByID(ctx, id, uid)
	if err != nil {
		return nil, storageError(s.logger, "EntryService.Get", uid, err)
	}
	return s.domainToDTO(e), nil
}

// List 按条件分页获取条目
func (s *entryService) List(ctx context.Context, uid string, params *dto.EntryListRequest, pager *app.Pager) ([]*dto.EntryDTO, int, error) {
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		return nil, 0, err
	}

	filter := domain.EntryFilter{
		Start:        start,
		End:          end,
		Mood:         mood.Mood(params.Mood),
		DominantMood: mood.Mood(params.DominantMood),
		Notable:      params.Notable,
	}
	if filter.Mood != "" && !filter.Mood.IsValid() {
		return nil, 0, code.ErrorInvalidParams.WithDetails("mood: " + params.Mood)
	}
	if filter.DominantMood != "" && !filter.DominantMood.IsValid() {
		return nil, 0, code.ErrorInvalidParams.WithDetails("dominantMood: " + params.DominantMood)
	}

	cfg := app.PaginationConfig{
		DefaultPageSize: s.config.App.DefaultPageSize,
		MaxPageSize:     s.config.App.MaxPageSize,
	}
	if pager == nil {
		pager = &app.Pager{}
	}
	pager.Limit = app.ResolveLimit(pager.Limit, cfg)
	pager.Offset = app.ResolveOffset(pager.Offset)

	entries, err := s.entryRepo.List(ctx, uid, filter, domain.Pagination{Limit: pager.Limit, Offset: pager.Offset})
	if err != nil {
		return nil, 0, storageError(s.logger, "EntryService.List", uid, err)
	}
	total, err := s.entryRepo.Count(ctx, uid, filter)
	if err != nil {
		return nil, 0, storageError(s.logger, "EntryService.List", uid, err)
	}
	pager.Total = int(total)

	return s.domainListToDTO(entries), int(total), nil
}

// ListRange 获取闭区间内全部条目
func (s *entryService) ListRange(ctx context.Context, uid string, start, end timex.Date) ([]*dto.EntryDTO, error) {
	if start.After(end) {
		return nil, code.ErrorEntryDateRange.WithDetails(start.String() + " > " + end.String())
	}
	entries, err := s.entryRepo.ListByDateRange(ctx, uid, start, end)
	if err != nil {
		return nil, storageError(s.logger, "EntryService.ListRange", uid, err)
	}
	return s.domainListToDTO(entries), nil
}

// patchFromRequest 将请求转换为部分更新，内容存在时派生情绪
func patchFromRequest(params *dto.EntryUpdateRequest) (domain.EntryPatch, error) {
	patch := domain.EntryPatch{
		Title:            params.Title,
		Notable:          params.Notable,
		Feedback:         params.Feedback,
		SuggestedBullets: params.SuggestedBullets,
		AnalyzedAt:       params.AnalyzedAt,
	}
	if params.Date != nil {
		d, err := parseDate("date", *params.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &d
	}
	if params.Content != nil {
		res, err := extract(params.Content)
		if err != nil {
			return patch, err
		}
		patch.Content = params.Content
		patch.Moods = res.Moods
		dm := res.Dominant
		patch.DominantMood = &dm
	}
	ns, err := toNotableSuggestion(params.NotableSuggestion)
	if err != nil {
		return patch, err
	}
	patch.NotableSuggestion = ns
	if patch.AnalyzedAt != nil {
		at := patch.AnalyzedAt.UTC()
		patch.AnalyzedAt = &at
	}
	return patch, nil
}

// Update 部分更新条目
func (s *entryService) Update(ctx context.Context, uid, id string, params *dto.EntryUpdateRequest) (*dto.EntryDTO, error) {
	patch, err := patchFromRequest(params)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, code.ErrorEntryUpdateEmpty
	}

	var updated *domain.Entry
	err = s.write(ctx, uid, func() (err error) {
		updated, err = s.entryRepo.Update(ctx, id, uid, patch)
		return err
	})
	if err != nil {
		return nil, writeError(s.logger, "EntryService.Update", uid, err)
	}
	return s.domainToDTO(updated), nil
}

// SetNotable 设置 notable 标记
func (s *entryService) SetNotable(ctx context.Context, uid, id string, notable bool) (*dto.EntryDTO, error) {
	var updated *domain.Entry
	err := s.write(ctx, uid, func() (err error) {
		updated, err = s.entryRepo.SetNotable(ctx, id, uid, notable)
		return err
	})
	if err != nil {
		return nil, writeError(s.logger, "EntryService.SetNotable", uid, err)
	}
	return s.domainToDTO(updated), nil
}

// Delete 删除条目
func (s *entryService) Delete(ctx context.Context, uid, id string) (bool, error) {
	var ok bool
	err := s.write(ctx, uid, func() (err error) {
		ok, err = s.entryRepo.Delete(ctx, id, uid)
		return err
	})
	if err != nil {
		return false, writeError(s.logger, "EntryService.Delete", uid, err)
	}
	if ok {
		s.logger.Debug("entry deleted", zap.String(logger.FieldUID, uid), zap.String(logger.FieldEntryID, id))
	}
	return ok, nil
}

// Heatmap 按日期聚合的热力图，相同的并发请求只查询一次
func (s *entryService) Heatmap(ctx context.Context, uid string, params *dto.HeatmapRequest) ([]*dto.HeatmapPointDTO, error) {
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, code.ErrorEntryDateInvalid.WithDetails("startDate and endDate are required")
	}

	// 键包含写入代数：在自己的写入提交后发起的请求不会并入更早的查询
	key := fmt.Sprintf("heatmap:%s:%d:%s:%s", uid, s.generation(uid).Load(), start.String(), end.String())
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		// 共享查询不随任一调用方取消
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), heatmapQueryTimeout)
		defer cancel()

		begin := time.Now()
		entries, err := s.entryRepo.ListByDateRange(qctx, uid, *start, *end)
		if err != nil {
			return nil, err
		}
		points := BuildHeatmap(entries)
		s.logger.Debug("heatmap built",
			zap.String(logger.FieldUID, uid),
			zap.Int("entries", len(entries)),
			zap.Int("days", len(points)),
			zap.Duration(logger.FieldDuration, time.Since(begin)),
		)
		return points, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, code.ErrorRequestTimeout.WithDetails(ctx.Err().Error())
	}
	if res.Err != nil {
		return nil, storageError(s.logger, "EntryService.Heatmap", uid, res.Err)
	}

	points := res.Val.([]domain.HeatmapPoint)
	out := make([]*dto.HeatmapPointDTO, 0, len(points))
	for _, p := range points {
		item := &dto.HeatmapPointDTO{
			Date:       p.Date,
			Moods:      mood.Strings(p.Moods),
			EntryCount: p.EntryCount,
			HasNotable: p.HasNotable,
		}
		if p.DominantMood != "" {
			dm := p.DominantMood.String()
			item.DominantMood = &dm
		}
		out = append(out, item)
	}
	return out, nil
}

// BragDocument 区间内的 notable 条目，按日期倒序
func (s *entryService) BragDocument(ctx context.Context, uid string, params *dto.BragRequest) (*dto.BragDocumentDTO, error) {
	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	notable := true
	filter := domain.EntryFilter{Start: start, End: end, Notable: &notable}
	entries, err := s.entryRepo.List(ctx, uid, filter, domain.Pagination{})
	if err != nil {
		return nil, storageError(s.logger, "EntryService.BragDocument", uid, err)
	}

	counts := make(map[string]int)
	for m, n := range CountDominantMoods(entries) {
		counts[m.String()] = n
	}

	return &dto.BragDocumentDTO{
		StartDate:  start,
		EndDate:    end,
		Total:      len(entries),
		MoodCounts: counts,
		Entries:    s.domainListToDTO(entries),
	}, nil
}
