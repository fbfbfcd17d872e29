// Package app 提供应用容器，封装所有依赖和服务
package app

import pkgapp "github.com/haierkeys/chrono-journal-service/pkg/app"

// 版本信息变量，由构建时注入
var (
	Version   string = "0.1.0"
	GitTag    string = "2000.01.01.release"
	BuildTime string = "2000-01-01T00:00:00+0800"
)

// 应用名称常量
const (
	// Name 应用名称
	Name = "Chrono Journal Service"
)

// BuildInfo 构建信息，CLI 与 /api/version 共用
func BuildInfo() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Name:      Name,
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
