// Package mood extracts mood tags from rich-text entry documents
// Package mood 从富文本日志文档中提取心情标签
package mood

// Mood closed set of mood tags
// Mood 心情标签（封闭枚举）
type Mood string

const (
	Flow     Mood = "flow"
	Buggy    Mood = "buggy"
	Learning Mood = "learning"
	Meetings Mood = "meetings"
	Standard Mood = "standard"
)

var all = []Mood{Flow, Buggy, Learning, Meetings, Standard}

// All returns every valid mood in declaration order
// All 按声明顺序返回全部心情
func All() []Mood {
	out := make([]Mood, len(all))
	copy(out, all)
	return out
}

// IsValid reports whether m is one of the five known moods
// IsValid 判断是否为合法心情
func (m Mood) IsValid() bool {
	switch m {
	case Flow, Buggy, Learning, Meetings, Standard:
		return true
	}
	return false
}

func (m Mood) String() string {
	return string(m)
}

// ParseMood converts a raw string, the bool is false for unknown values
// ParseMood 解析字符串，未知值返回 false
func ParseMood(s string) (Mood, bool) {
	m := Mood(s)
	if !m.IsValid() {
		return "", false
	}
	return m, true
}

// Strings converts a mood slice to plain strings
// Strings 转换为字符串切片
func Strings(moods []Mood) []string {
	out := make([]string, 0, len(moods))
	for _, m := range moods {
		out = append(out, string(m))
	}
	return out
}

// FromStrings keeps the valid moods of ss, order preserved
// FromStrings 保留合法心情，顺序不变
func FromStrings(ss []string) []Mood {
	out := make([]Mood, 0, len(ss))
	for _, s := range ss {
		if m, ok := ParseMood(s); ok {
			out = append(out, m)
		}
	}
	return out
}
