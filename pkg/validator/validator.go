// Package validator gin struct validator with the journal rules registered
// Package validator 注册了日志校验规则的 gin 结构体校验器
package validator

import (
	"reflect"
	"sync"

	"github.com/haierkeys/chrono-journal-service/pkg/mood"
	"github.com/haierkeys/chrono-journal-service/pkg/timex"

	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements binding.StructValidator
// CustomValidator 实现 binding.StructValidator
type CustomValidator struct {
	Once     sync.Once
	Validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct validates structs and pointers to structs, other kinds pass
// ValidateStruct 仅校验结构体及其指针
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		if value.Elem().Kind() != reflect.Struct {
			return nil
		}
	case reflect.Struct:
	default:
		return nil
	}

	v.lazyinit()
	return v.Validate.Struct(obj)
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.Once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
		// 注册失败说明规则名冲突，属于编程错误
		if err := RegisterCustom(v.Validate); err != nil {
			panic(err)
		}
	})
}

// RegisterCustom registers the "mood" and "date" rules on validate
// RegisterCustom 注册 mood 与 date 校验规则
func RegisterCustom(validate *validator.Validate) error {
	if err := validate.RegisterValidation("mood", validMood); err != nil {
		return err
	}
	return validate.RegisterValidation("date", validDate)
}

func validMood(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	return mood.Mood(f.String()).IsValid()
}

func validDate(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	_, err := timex.ParseDate(f.String())
	return err == nil
}

// customMessages 自定义规则的翻译文本，按 universal-translator locale 区分
var customMessages = map[string]map[string]string{
	"en": {
		"mood": "{0} must be one of flow, buggy, learning, meetings, standard",
		"date": "{0} must be a date in YYYY-MM-DD format",
	},
	"zh": {
		"mood": "{0}必须是 flow、buggy、learning、meetings、standard 之一",
		"date": "{0}必须是 YYYY-MM-DD 格式的日期",
	},
}

// RegisterCustomTranslations registers messages for the "mood" and "date" rules
// RegisterCustomTranslations 为自定义规则注册翻译，未知 locale 使用英文
func RegisterCustomTranslations(validate *validator.Validate, trans ut.Translator) error {
	messages, ok := customMessages[trans.Locale()]
	if !ok {
		messages = customMessages["en"]
	}
	for tag, text := range messages {
		err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(tag, fe.Field())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
