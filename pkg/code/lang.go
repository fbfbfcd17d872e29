package code

import "strings"

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const (
	LangEN   = "en"
	LangZhCN = "zh_cn"
	// FallbackLang used when a message has no text for the requested language
	// FallbackLang 请求语言缺失时的回退语言
	FallbackLang = LangEN
)

// NormalizeLang maps inputs such as "zh-CN" or "ZH" to a supported language
// NormalizeLang 将 "zh-CN"、"ZH" 等输入规范为支持的语言
func NormalizeLang(s string) string {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch {
	case s == LangZhCN, s == "zh", strings.HasPrefix(s, "zh_"):
		return LangZhCN
	case s == LangEN, strings.HasPrefix(s, "en_"):
		return LangEN
	}
	return FallbackLang
}

// GetMessage returns the text for language l, falling back to English
// GetMessage 根据语言返回消息，缺失时回退英文
func (l lang) GetMessage(language string) string {
	if NormalizeLang(language) == LangZhCN && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages languages that carry message text
// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	return []string{LangEN, LangZhCN}
}
