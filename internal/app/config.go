// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/chrono-journal-service/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PlaceholderAuthTokenKey 默认配置中的占位密钥，首次运行时被随机密钥替换
const PlaceholderAuthTokenKey = "chrono-journal-Auth-Token"

// AppConfig 应用配置
type AppConfig struct {
	File      string          `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	App       AppSettings     `yaml:"app"`
	Security  SecurityConfig  `yaml:"security"`
	Cors      CorsConfig      `yaml:"cors"`
	Tracer    TracerConfig    `yaml:"tracer"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
	Task      TaskConfig      `yaml:"task"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址，为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:9001"`
	// PrivateAuthToken 私有接口（metrics / pprof）的访问 Token，为空时不校验
	PrivateAuthToken string `yaml:"private-auth-token"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"chrono-journal-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"30d"`
	// TokenIssuer Token 签发者
	TokenIssuer string `yaml:"token-issuer" default:"chrono-journal-service"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/chrono.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机，形如 host:port
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix" default:"chrono_"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时），默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultPageSize 默认页面大小
	DefaultPageSize int `yaml:"default-page-size" default:"20"`
	// MaxPageSize 最大页面大小
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// WriteQueueCapacity 每个用户排队等待的写操作上限
	WriteQueueCapacity int `yaml:"write-queue-capacity" default:"100"`
	// WriteTimeout 单个写操作的等待上限
	WriteTimeout string `yaml:"write-timeout" default:"30s"`
}

// CorsConfig 跨域配置
type CorsConfig struct {
	// AllowOrigins 允许的来源，逗号分隔，* 表示全部
	AllowOrigins string `yaml:"allow-origins" default:"*"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// RateLimitConfig 令牌桶限流配置，作用于每个路由
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool `yaml:"enabled" default:"true"`
	// FillInterval 令牌填充间隔
	FillInterval string `yaml:"fill-interval" default:"1s"`
	// Capacity 令牌桶容量
	Capacity int64 `yaml:"capacity" default:"100"`
	// Quantum 每次填充的令牌数
	Quantum int64 `yaml:"quantum" default:"100"`
}

// TaskConfig 后台任务配置
type TaskConfig struct {
	// DbOptimizeCron 数据库维护的 cron 表达式，为空时不运行
	DbOptimizeCron string `yaml:"db-optimize-cron" default:"0 4 * * *"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置，未出现的键使用默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 只在解码前填充默认值：解码后再次填充会把显式写为 false 的开关改回默认值
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 校验配置中的时长与枚举值
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unsupported database type %q", c.Database.Type)
	}
	for name, v := range map[string]string{
		"security.token-expiry":       c.Security.TokenExpiry,
		"database.conn-max-lifetime":  c.Database.ConnMaxLifetime,
		"database.conn-max-idle-time": c.Database.ConnMaxIdleTime,
		"rate-limit.fill-interval":    c.RateLimit.FillInterval,
		"app.write-timeout":           c.App.WriteTimeout,
	} {
		if _, err := util.ParseDuration(v); err != nil {
			return errors.Wrapf(err, "invalid %s", name)
		}
	}
	if c.App.MaxPageSize < c.App.DefaultPageSize {
		return errors.Errorf("app.max-page-size %d is below default-page-size %d", c.App.MaxPageSize, c.App.DefaultPageSize)
	}
	return nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.ParseDurationOr(c.Security.TokenExpiry, 30*24*time.Hour)
}

// GetContextTimeout 请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetWriteTimeout 写队列等待上限
func (c *AppConfig) GetWriteTimeout() time.Duration {
	return util.ParseDurationOr(c.App.WriteTimeout, 30*time.Second)
}

// GetRateLimitFillInterval 令牌填充间隔
func (c *AppConfig) GetRateLimitFillInterval() time.Duration {
	return util.ParseDurationOr(c.RateLimit.FillInterval, time.Second)
}

// GetAllowOrigins 拆分逗号分隔的跨域来源
func (c *AppConfig) GetAllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Cors.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
