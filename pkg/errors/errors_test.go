package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAggregationError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrap: %w", &AggregationError{Source: "staff", Err: cause})

	if !IsAggregation(err) {
		t.Fatal("应识别为 AggregationError")
	}
	if !errors.Is(err, cause) {
		t.Error("应保留底层错误")
	}
	if !strings.Contains(err.Error(), "staff") {
		t.Errorf("错误信息应包含来源: %s", err.Error())
	}
}

func TestGenerationSchemaError_Message(t *testing.T) {
	err := NewEntryError(3, "start_at", "不是 RFC 3339 时间")
	if !IsGenerationSchema(err) {
		t.Fatal("应识别为 GenerationSchemaError")
	}
	if got := err.Error(); !strings.Contains(got, "shifts[3].start_at") {
		t.Errorf("错误信息应定位字段: %s", got)
	}

	whole := NewSchemaError("不是合法 JSON", errors.New("unexpected EOF"))
	if strings.Contains(whole.Error(), "shifts[") {
		t.Errorf("整体错误不应包含下标: %s", whole.Error())
	}
	if IsAggregation(whole) {
		t.Error("结构错误不应被识别为聚合错误")
	}
}
