package api_router

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/app"

	"github.com/gin-gonic/gin"
)

var (
	publishOnce sync.Once
	currentApp  atomic.Pointer[app.App]
)

// Expvar 导出系统运行时指标 (/debug/vars)
// "chrono" 变量包含最近一次创建路由时的 App 版本、启动时间与运行时长
func Expvar(a *app.App) gin.HandlerFunc {
	currentApp.Store(a)
	publishOnce.Do(func() {
		expvar.Publish("chrono", expvar.Func(func() any {
			cur := currentApp.Load()
			return map[string]any{
				"version":       cur.Version().Version,
				"startTime":     cur.StartTime.UTC().Format(time.RFC3339),
				"uptimeSeconds": time.Since(cur.StartTime).Seconds(),
			}
		}))
	})
	return gin.WrapH(expvar.Handler())
}
