package code

import (
	"errors"
	"net/http"
)

var (
	Success       = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate = NewSuss(2, lang{en: "Created", zh_cn: "创建成功"})
	SuccessUpdate = NewSuss(3, lang{en: "Updated", zh_cn: "更新成功"})
	SuccessDelete = NewSuss(4, lang{en: "Deleted", zh_cn: "删除成功"})
)

var (
	Failed              = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorNotFoundAPI    = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"}, http.StatusNotFound)

	ErrorInvalidParams   = NewError(405, lang{en: "Invalid params", zh_cn: "参数错误"}, http.StatusBadRequest)
	ErrorTooManyRequests = NewError(406, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorDBQuery         = NewError(407, lang{en: "Database query failed", zh_cn: "数据库查询失败"}, http.StatusInternalServerError)
	ErrorRequestTimeout  = NewError(408, lang{en: "Request timeout", zh_cn: "请求超时"}, http.StatusGatewayTimeout)
	ErrorShuttingDown    = NewError(409, lang{en: "Service is shutting down", zh_cn: "服务正在关闭"}, http.StatusServiceUnavailable)

	ErrorNotUserAuthToken     = NewError(501, lang{en: "Authorization token required", zh_cn: "缺少授权 Token"}, http.StatusUnauthorized)
	ErrorInvalidUserAuthToken = NewError(502, lang{en: "Invalid or expired authorization token", zh_cn: "授权 Token 无效或已过期"}, http.StatusUnauthorized)
	ErrorInvalidAuthToken     = NewError(503, lang{en: "Invalid access token", zh_cn: "访问 Token 无效"}, http.StatusUnauthorized)

	ErrorEntryNotFound       = NewError(601, lang{en: "Entry not found", zh_cn: "日志不存在"}, http.StatusNotFound)
	ErrorEntryDateInvalid    = NewError(602, lang{en: "Entry date is invalid", zh_cn: "日志日期无效"}, http.StatusBadRequest)
	ErrorEntryContentInvalid = NewError(603, lang{en: "Entry content is invalid", zh_cn: "日志内容无效"}, http.StatusBadRequest)
	ErrorEntryUpdateEmpty    = NewError(604, lang{en: "No fields to update", zh_cn: "没有需要更新的字段"}, http.StatusBadRequest)
	ErrorEntryDateRange      = NewError(605, lang{en: "Start date is after end date", zh_cn: "开始日期晚于结束日期"}, http.StatusBadRequest)
)

// IsValidation reports whether err is one of the caller input failures
// IsValidation 判断是否为调用方输入错误
func IsValidation(err error) bool {
	var c *Code
	if !errors.As(err, &c) {
		return false
	}
	switch c.code {
	case ErrorInvalidParams.code, ErrorEntryDateInvalid.code, ErrorEntryContentInvalid.code,
		ErrorEntryUpdateEmpty.code, ErrorEntryDateRange.code:
		return true
	}
	return false
}
