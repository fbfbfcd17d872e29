package routers

import (
	"net/http"
	"net/http/pprof"

	"github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/internal/middleware"
	"github.com/haierkeys/chrono-journal-service/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultPrefix url prefix of pprof
	DefaultPrefix = "/debug/pprof"
)

// NewPrivateRouter creates the private router: /metrics, /debug/vars and, in debug mode, pprof
// NewPrivateRouter 创建私有路由，pprof 仅在 debug 模式下注册
func NewPrivateRouter(appContainer *app.App) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()

	if cfg.Server.RunMode == "debug" {
		r.Use(gin.Recovery())
	} else {
		r.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
	}
	r.Use(middleware.SimpleAuthTokenWithConfig(cfg.Server.PrivateAuthToken))

	// prom监控
	r.GET("/debug/vars", api_router.Expvar(appContainer))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Server.RunMode == "debug" {
		p := r.Group(DefaultPrefix)
		{
			p.GET("/", pprofHandler(pprof.Index))
			p.GET("/cmdline", pprofHandler(pprof.Cmdline))
			p.GET("/profile", pprofHandler(pprof.Profile))
			p.POST("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/symbol", pprofHandler(pprof.Symbol))
			p.GET("/trace", pprofHandler(pprof.Trace))
			for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
				p.GET("/"+name, pprofHandler(pprof.Handler(name).ServeHTTP))
			}
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}

func pprofHandler(h http.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
