package code

import (
	"errors"
	"net/http"
	"testing"
)

func TestCode_WithReturnsCopy(t *testing.T) {
	withData := ErrorInvalidParams.WithData(map[string]string{"limit": "too big"})
	withDetails := ErrorInvalidParams.WithDetails("limit must be at most 100")

	if ErrorInvalidParams.HaveData() || ErrorInvalidParams.HaveDetails() {
		t.Fatal("declared code was mutated")
	}
	if !withData.HaveData() || withData.HaveDetails() {
		t.Errorf("WithData copy: haveData=%v haveDetails=%v", withData.HaveData(), withData.HaveDetails())
	}
	if !withDetails.HaveDetails() || withDetails.Details()[0] != "limit must be at most 100" {
		t.Errorf("WithDetails copy: %v", withDetails.Details())
	}
	if !errors.Is(withDetails, ErrorInvalidParams) {
		t.Error("errors.Is should match copies by number")
	}
	if errors.Is(withDetails, ErrorEntryNotFound) {
		t.Error("errors.Is matched a different code")
	}
}

func TestCode_Messages(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Entry not found"},
		{"zh_cn", "日志不存在"},
		{"zh-CN", "日志不存在"},
		{"zh", "日志不存在"},
		{"fr", "Entry not found"},
		{"", "Entry not found"},
	}
	for _, tt := range tests {
		if got := ErrorEntryNotFound.MsgLang(tt.lang); got != tt.want {
			t.Errorf("MsgLang(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestCode_StatusAndValidation(t *testing.T) {
	if ErrorEntryNotFound.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d", ErrorEntryNotFound.StatusCode())
	}
	if Success.StatusCode() != http.StatusOK || !Success.Status() {
		t.Error("Success should be 200 with status true")
	}
	if !IsValidation(ErrorEntryUpdateEmpty.WithDetails("x")) {
		t.Error("IsValidation(ErrorEntryUpdateEmpty) = false")
	}
	if IsValidation(ErrorDBQuery) || IsValidation(errors.New("x")) {
		t.Error("IsValidation matched a non-validation error")
	}
}
