// Package timex time and date-only types used on the wire
// Package timex 接口层使用的时间与日期类型
package timex

import (
	"strconv"
	"time"
)

// Layout JSON layout of Time
// Layout Time 的 JSON 格式
const Layout = time.RFC3339

// Time wall-clock timestamp serialized as RFC3339
// Time 以 RFC3339 序列化的时间戳
type Time time.Time

// Now current time
// Now 当前时间
func Now() Time {
	return Time(time.Now())
}

func (t Time) Std() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

// MarshalJSON zero time is encoded as null
// MarshalJSON 零值编码为 null
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, unquoted)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}
