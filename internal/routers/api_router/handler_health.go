package api_router

import (
	"context"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/internal/dto"
	pkgapp "github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口，包含数据库连通性
// GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	response := dto.HealthDTO{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.App.Version().Version,
		Database:  "connected",
	}

	if h.App.IsShuttingDown() {
		response.Status = "shutting_down"
		pkgapp.NewResponse(c).ToResponse(code.ErrorShuttingDown.WithData(response))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.App.Ping(ctx); err != nil {
		h.App.Logger().Warn("HealthHandler.Check ping failed", zap.Error(err))
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.ErrorDBQuery.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
