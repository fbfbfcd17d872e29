package middleware

import (
	"github.com/haierkeys/chrono-journal-service/pkg/app"
	"github.com/haierkeys/chrono-journal-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// translatorLocales maps request languages to universal-translator locale names
var translatorLocales = map[string]string{
	code.LangEN:   "en",
	code.LangZhCN: "zh",
}

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 读取 query / header 中的 lang，写入 app.LangKey 与 app.TransKey
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang = s
		}

		lang = code.NormalizeLang(lang)
		c.Set(app.LangKey, lang)

		if uni != nil {
			trans, found := uni.GetTranslator(translatorLocales[lang])
			if !found {
				trans, _ = uni.GetTranslator("en")
			}
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}
