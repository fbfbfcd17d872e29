// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	App AppServiceConfig // App related config // 应用相关配置
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	DefaultPageSize int // Page size when the request sets none // 未指定时的每页数量
	MaxPageSize     int // Upper bound for a page // 每页数量上限
}
