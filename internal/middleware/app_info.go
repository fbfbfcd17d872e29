package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// AppNameKey Context 中的应用名称
	AppNameKey = "app_name"
	// AppVersionKey Context 中的应用版本
	AppVersionKey = "app_version"
)

// AppInfo 写入应用名称与版本，并通过响应头 X-App-Version 返回
func AppInfo(name, version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set(AppNameKey, name)
		c.Set(AppVersionKey, version)
		c.Header("X-App-Version", version)

		c.Next()
	}
}
