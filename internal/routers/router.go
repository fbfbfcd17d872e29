package routers

import (
	"github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/internal/middleware"
	"github.com/haierkeys/chrono-journal-service/internal/routers/api_router"
	"github.com/haierkeys/chrono-journal-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterOptions 路由可选依赖
type RouterOptions struct {
	// Translator 校验信息翻译器，为空时输出英文原文
	Translator *ut.UniversalTranslator
	// Registerer 请求指标注册表，为空时使用 prometheus 默认注册表
	Registerer prometheus.Registerer
}

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, opts RouterOptions) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	methodLimiters := limiter.NewMethodLimiter()
	metrics := middleware.NewHTTPMetrics(opts.Registerer)

	r := gin.New()
	r.Use(middleware.TraceMiddleware(middleware.TracerConfig{Enabled: cfg.Tracer.Enabled, Header: cfg.Tracer.Header})) // Trace ID 中间件
	r.Use(middleware.RecoveryWithLogger(lg))
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.Cors(cfg.GetAllowOrigins()))
	r.Use(middleware.LangWithTranslator(opts.Translator))
	r.Use(metrics.Handler())

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
		if cfg.RateLimit.Enabled {
			api.Use(middleware.RateLimiter(methodLimiters))
		}
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))

		// 创建 Handlers（注入 App Container）
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		entryHandler := api_router.NewEntryHandler(appContainer)

		// 无需认证
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		entries := api.Group("/entries")
		entries.Use(middleware.UserAuthTokenWithConfig(appContainer.GetAuthTokenKey()))
		{
			entries.POST("", entryHandler.Create)
			entries.GET("", entryHandler.List)
			entries.GET("/heatmap", entryHandler.Heatmap)
			entries.GET("/brag", entryHandler.Brag)
			entries.GET("/range", entryHandler.Range)
			entries.GET("/:id", entryHandler.Get)
			entries.PUT("/:id", entryHandler.Update)
			entries.PATCH("/:id/notable", entryHandler.SetNotable)
			entries.DELETE("/:id", entryHandler.Delete)
		}
	}

	// 每个已注册路由一个令牌桶
	if cfg.RateLimit.Enabled {
		for _, route := range r.Routes() {
			methodLimiters.AddBuckets(limiter.BucketRule{
				Key:          route.Path,
				FillInterval: cfg.GetRateLimitFillInterval(),
				Capacity:     cfg.RateLimit.Capacity,
				Quantum:      cfg.RateLimit.Quantum,
			})
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}
