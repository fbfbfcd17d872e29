package errors

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/chrono-journal-service/internal/middleware"
	"github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 恒为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选），多条以逗号连接
	Details string `json:"details,omitempty"`
	// Data 附加数据（可选），如字段校验错误
	Data interface{} `json:"data,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return fromCode(c, code.FallbackLang, cause)
}

func fromCode(c *code.Code, language string, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.MsgLang(language),
		Details:    strings.Join(c.Details(), ","),
		Data:       c.Data(),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// StatusCode HTTP status for the error, 500 when unset
func (e *AppError) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID 与语言，将错误转换为 AppError 并按其 HTTP 状态返回
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		write(c, appErr)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		write(c, fromCode(codeErr, app.GetLang(c), err).WithTraceID(traceID))
		return
	}

	// 未知错误，返回内部错误
	write(c, fromCode(code.ErrorServerInternal, app.GetLang(c), err).WithTraceID(traceID))
}

func write(c *gin.Context, e *AppError) {
	c.Set("status_code", e.StatusCode())
	c.JSON(e.StatusCode(), e)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
