package middleware

import (
	"github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 未注册路由统一返回 JSON 404，details 为请求方法与路径
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
