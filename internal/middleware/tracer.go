package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey Context 中存储 Trace ID 的键
	TraceIDKey = "trace_id"
)

type traceIDCtxKey struct{}

// TracerConfig 追踪中间件配置
type TracerConfig struct {
	Enabled bool
	Header  string
	// Tracer 为空时使用 opentracing.GlobalTracer
	Tracer opentracing.Tracer
}

// TraceMiddleware 创建请求追踪中间件
// 1. 从请求头获取或生成唯一的 Trace ID
// 2. 将 Trace ID 注入到 gin.Context 和 request.Context
// 3. 在响应头中返回 Trace ID
// 4. 为请求开启 opentracing span，数据库查询的 span 挂在其下
func TraceMiddleware(cfg TracerConfig) gin.HandlerFunc {
	headerName := cfg.Header
	if headerName == "" {
		headerName = DefaultTraceIDHeader
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		traceID := c.GetHeader(headerName)
		if traceID == "" || len(traceID) > 128 {
			traceID = generateTraceID()
		}

		tracer := cfg.Tracer
		if tracer == nil {
			tracer = opentracing.GlobalTracer()
		}
		span, ctx := opentracing.StartSpanFromContextWithTracer(c.Request.Context(), tracer, c.Request.Method+" "+c.Request.URL.Path)
		span.SetTag(TraceIDKey, traceID)
		ext.HTTPMethod.Set(span, c.Request.Method)
		defer span.Finish()

		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(WithTraceID(ctx, traceID))
		c.Header(headerName, traceID)

		c.Next()

		if route := c.FullPath(); route != "" {
			span.SetOperationName(c.Request.Method + " " + route)
		}
		ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
	}
}

// generateTraceID 生成唯一的 Trace ID
// 格式: {timestamp_nano}-{random_hex}
func generateTraceID() string {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}

	return fmt.Sprintf("%d-%s",
		time.Now().UnixNano(),
		hex.EncodeToString(randomBytes)[:8])
}

// WithTraceID 将 Trace ID 写入 context.Context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDCtxKey{}, traceID)
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(traceIDCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id, exists := c.Get(TraceIDKey); exists {
		if traceID, ok := id.(string); ok {
			return traceID
		}
	}
	return ""
}
