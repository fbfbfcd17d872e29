// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/dao"
	"github.com/haierkeys/chrono-journal-service/internal/domain"
	"github.com/haierkeys/chrono-journal-service/internal/service"
	pkgapp "github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/util"
	"github.com/haierkeys/chrono-journal-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// Repository 层
	EntryRepo domain.EntryRepository

	// Service 层
	EntryService service.EntryService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	WriteQueue   *writequeue.Manager

	StartTime  time.Time
	shutdownCh chan struct{}
}

// DatabaseConfig 转换为 DAO 使用的数据库配置
func (c *AppConfig) DaoDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		SSLMode:         c.Database.SSLMode,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: util.ParseDurationOr(c.Database.ConnMaxLifetime, 30*time.Minute),
		ConnMaxIdleTime: util.ParseDurationOr(c.Database.ConnMaxIdleTime, 10*time.Minute),
		RunMode:         c.Server.RunMode,
		Tracing:         c.Tracer.Enabled,
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 DAO
	a.Dao = dao.New(db, cfg.Database.Type, logger)

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    cfg.Security.TokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 Repository 层
	a.EntryRepo = dao.NewEntryRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		App: service.AppServiceConfig{
			DefaultPageSize: cfg.App.DefaultPageSize,
			MaxPageSize:     cfg.App.MaxPageSize,
		},
	}

	// 写队列，同一用户的写操作串行执行
	a.WriteQueue = writequeue.New(writequeue.Config{
		QueueCapacity: cfg.App.WriteQueueCapacity,
		WriteTimeout:  cfg.GetWriteTimeout(),
	}, logger)

	// 初始化 Service 层（依赖注入）
	a.EntryService = service.NewEntryService(a.EntryRepo, svcConfig, logger, service.WithWriter(a.WriteQueue))

	logger.Info("App container initialized successfully",
		zap.String("database", cfg.Database.Type))

	return a, nil
}

// Close 释放应用容器持有的资源，先排空写队列再关闭数据库
func (a *App) Close() error {
	if a.WriteQueue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		err := a.WriteQueue.Shutdown(ctx)
		cancel()
		if err != nil {
			a.logger.Warn("write queue did not drain", zap.Error(err))
		}
	}
	if a.Dao != nil {
		if err := a.Dao.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return BuildInfo()
}

// GetAuthTokenKey 获取 Token 密钥
func (a *App) GetAuthTokenKey() string {
	return a.config.Security.AuthTokenKey
}

// Ping 检查数据库连通性
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器，重复调用无副作用
func (a *App) Shutdown(ctx context.Context) error {
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- a.Close() }()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Warn("App container shutdown completed with errors", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}
