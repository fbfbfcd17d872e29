// Package code coded results returned by services and rendered by handlers
// Package code 服务返回、处理器渲染的结果码
package code

import (
	"fmt"
	"net/http"
)

// Code is immutable once declared; WithData and WithDetails return copies
// so shared values are never mutated by concurrent requests.
// Code 声明后不可变，WithData / WithDetails 返回副本
type Code struct {
	// 状态码
	code int
	// 状态
	status bool
	// 错误消息
	Lang lang
	// HTTP 状态
	httpStatus int
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError declares a failure code; duplicate numbers panic at init
// NewError 声明错误码，重复时在初始化阶段 panic
func NewError(code int, l lang, httpStatus ...int) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.en

	status := http.StatusOK
	if len(httpStatus) > 0 {
		status = httpStatus[0]
	}
	return &Code{code: code, status: false, Lang: l, httpStatus: status}
}

// NewSuss declares a success code
// NewSuss 声明成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.en
	return &Code{code: code, status: true, Lang: l, httpStatus: http.StatusOK}
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	c := *e
	if e.details != nil {
		c.details = append([]string(nil), e.details...)
	}
	return &c
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return fmt.Sprintf("%s: %v", e.Msg(), e.details)
	}
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

// Msg message in the fallback language
func (e *Code) Msg() string {
	return e.Lang.GetMessage(FallbackLang)
}

// MsgLang message in the given language
// MsgLang 指定语言的消息
func (e *Code) MsgLang(language string) string {
	return e.Lang.GetMessage(language)
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// Is matches any copy carrying the same number
// Is 编号相同即视为同一错误
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	return ok && t.code == e.code
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}
