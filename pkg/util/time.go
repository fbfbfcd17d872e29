package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string, extending time.ParseDuration with a
// day unit ("7d") and bare numbers as seconds ("30")
// ParseDuration 解析时长字符串，支持天单位（7d），纯数字视为秒
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// ParseDurationOr returns fallback when s is empty or malformed
// ParseDurationOr 解析失败或为空时返回 fallback
func ParseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
