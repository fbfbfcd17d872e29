package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// TransKey gin 上下文中存放校验翻译器的键
const TransKey = "trans"

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 所有错误消息以逗号拼接
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// MapsToString 字段名到错误消息的映射
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid binds query or body into v by method and content type, then
// runs struct validation, translating failures with the request translator
// BindAndValid 按请求方法与类型绑定参数并校验，使用请求翻译器翻译错误
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	var errs ValidErrors

	if err := c.ShouldBind(v); err != nil {
		errs = translate(c, err)
		return false, errs
	}

	return true, nil
}

func translate(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return append(errs, &ValidError{Key: "body", Message: err.Error()})
	}

	trans, hasTrans := c.Value(TransKey).(ut.Translator)
	for _, validationErr := range validationErrors {
		msg := validationErr.Error()
		if hasTrans {
			msg = validationErr.Translate(trans)
		}
		errs = append(errs, &ValidError{
			Key:     validationErr.Field(),
			Message: msg,
		})
	}
	return errs
}
