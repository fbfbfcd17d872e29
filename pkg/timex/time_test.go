package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}
	if tt.UnixMicro() != now.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), now.UnixMicro())
	}
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}
}

func TestTime_JSON(t *testing.T) {
	tt := Time(time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC))
	b, err := json.Marshal(tt)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != `"2024-03-05T08:30:00Z"` {
		t.Errorf("Marshal = %s", b)
	}

	var back Time
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !back.Std().Equal(tt.Std()) {
		t.Errorf("Unmarshal = %v, want %v", back, tt)
	}

	b, _ = json.Marshal(Time{})
	if string(b) != "null" {
		t.Errorf("zero Marshal = %s, want null", b)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-05", want: "2024-03-05"},
		{in: " 2024-03-05 ", want: "2024-03-05"},
		{in: "2024-03-05T23:10:00Z", want: "2024-03-05"},
		// converted to UTC before truncation
		{in: "2024-03-05T23:10:00-05:00", want: "2024-03-06"},
		{in: "2024-03-05T01:10:00+08:00", want: "2024-03-04"},
		{in: "2024-03-05T10:00:00.123Z", want: "2024-03-05"},
		{in: "2024-03-05 10:00:00", want: "2024-03-05"},
		{in: "", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "2024-02-30", wantErr: true},
		{in: "2024/03/05", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate_CompareAndJSON(t *testing.T) {
	a := MustParseDate("2024-03-05")
	b := a.AddDays(1)
	if !a.Before(b) || !b.After(a) || a.Equal(b) {
		t.Errorf("compare failed: a=%s b=%s", a, b)
	}
	if b.String() != "2024-03-06" {
		t.Errorf("AddDays(1) = %s", b)
	}
	if !NewDate(2024, time.March, 5).Equal(a) {
		t.Error("NewDate mismatch")
	}

	raw, _ := json.Marshal(struct {
		D Date `json:"d"`
	}{D: a})
	if string(raw) != `{"d":"2024-03-05"}` {
		t.Errorf("Marshal = %s", raw)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-12-31T22:00:00Z"}`), &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out.D.String() != "2024-12-31" {
		t.Errorf("Unmarshal = %s", out.D)
	}
	if err := json.Unmarshal([]byte(`{"d":"bad"}`), &out); err == nil {
		t.Error("Unmarshal accepted a bad date")
	}
}
