package api_router

import (
	"github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/internal/dto"
	pkgapp "github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"
	apperrors "github.com/haierkeys/chrono-journal-service/pkg/errors"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EntryHandler 日志条目 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type EntryHandler struct {
	*Handler
}

// NewEntryHandler 创建 EntryHandler 实例
func NewEntryHandler(a *app.App) *EntryHandler {
	return &EntryHandler{
		Handler: NewHandler(a),
	}
}

// bind 参数绑定和验证，失败时直接输出 ErrorInvalidParams
func (h *EntryHandler) bind(c *gin.Context, method string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(method+".BindAndValid errs", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// uid 获取认证用户 ID，缺失时输出 ErrorInvalidUserAuthToken
func (h *EntryHandler) uid(c *gin.Context, method string) (string, bool) {
	uid := pkgapp.GetUID(c)
	if uid == "" {
		h.App.Logger().Error(method + " err empty uid")
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
		return "", false
	}
	return uid, true
}

// Create 创建日志条目
// POST /api/entries
func (h *EntryHandler) Create(c *gin.Context) {
	params := &dto.EntryCreateRequest{}
	if !h.bind(c, "EntryHandler.Create", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.Create")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entry, err := h.App.EntryService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "EntryHandler.Create", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(entry))
}

// List 按条件分页获取条目
// GET /api/entries
func (h *EntryHandler) List(c *gin.Context) {
	params := &dto.EntryListRequest{}
	if !h.bind(c, "EntryHandler.List", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.List")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pager := &pkgapp.Pager{Limit: params.Limit, Offset: params.Offset}

	entries, _, err := h.App.EntryService.List(ctx, uid, params, pager)
	if err != nil {
		h.logError(ctx, "EntryHandler.List", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, entries, *pager)
}

// Get 获取单条条目
// GET /api/entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	uid, ok := h.uid(c, "EntryHandler.Get")
	if !ok {
		return
	}
	id := c.Param("id")

	ctx := c.Request.Context()
	entry, err := h.App.EntryService.Get(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "EntryHandler.Get", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryNotFound.WithDetails(id))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(entry))
}

// Update 部分更新条目
// PUT /api/entries/:id
func (h *EntryHandler) Update(c *gin.Context) {
	params := &dto.EntryUpdateRequest{}
	if !h.bind(c, "EntryHandler.Update", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.Update")
	if !ok {
		return
	}
	id := c.Param("id")

	ctx := c.Request.Context()
	entry, err := h.App.EntryService.Update(ctx, uid, id, params)
	if err != nil {
		h.logError(ctx, "EntryHandler.Update", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryNotFound.WithDetails(id))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(entry))
}

// SetNotable 设置 notable 标记
// PATCH /api/entries/:id/notable
func (h *EntryHandler) SetNotable(c *gin.Context) {
	params := &dto.EntryNotableRequest{}
	if !h.bind(c, "EntryHandler.SetNotable", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.SetNotable")
	if !ok {
		return
	}
	id := c.Param("id")

	ctx := c.Request.Context()
	entry, err := h.App.EntryService.SetNotable(ctx, uid, id, *params.Notable)
	if err != nil {
		h.logError(ctx, "EntryHandler.SetNotable", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if entry == nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryNotFound.WithDetails(id))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(entry))
}

// Delete 删除条目
// DELETE /api/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "EntryHandler.Delete")
	if !ok {
		return
	}
	id := c.Param("id")

	ctx := c.Request.Context()
	deleted, err := h.App.EntryService.Delete(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "EntryHandler.Delete", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if !deleted {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryNotFound.WithDetails(id))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Heatmap 按日期聚合的热力图
// GET /api/entries/heatmap
func (h *EntryHandler) Heatmap(c *gin.Context) {
	params := &dto.HeatmapRequest{}
	if !h.bind(c, "EntryHandler.Heatmap", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.Heatmap")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	points, err := h.App.EntryService.Heatmap(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "EntryHandler.Heatmap", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(points))
}

// Range 闭区间内全部条目，按日期升序，供日历视图使用
// GET /api/entries/range
func (h *EntryHandler) Range(c *gin.Context) {
	params := &dto.EntryRangeRequest{}
	if !h.bind(c, "EntryHandler.Range", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.Range")
	if !ok {
		return
	}

	start, err := timex.ParseDate(params.StartDate)
	if err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryDateInvalid.WithDetails("startDate: " + err.Error()))
		return
	}
	end, err := timex.ParseDate(params.EndDate)
	if err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorEntryDateInvalid.WithDetails("endDate: " + err.Error()))
		return
	}

	ctx := c.Request.Context()
	entries, err := h.App.EntryService.ListRange(ctx, uid, start, end)
	if err != nil {
		h.logError(ctx, "EntryHandler.Range", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(entries))
}

// Brag 成就文档：区间内的 notable 条目
// GET /api/entries/brag
func (h *EntryHandler) Brag(c *gin.Context) {
	params := &dto.BragRequest{}
	if !h.bind(c, "EntryHandler.Brag", params) {
		return
	}
	uid, ok := h.uid(c, "EntryHandler.Brag")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	doc, err := h.App.EntryService.BragDocument(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "EntryHandler.Brag", uid, err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(doc))
}
