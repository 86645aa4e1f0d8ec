package shift

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "shift-pilot/backend/pkg/errors"
)

// rawEntry 生成结果中单个班次的原始结构
// 字段使用指针以区分"缺失"与"空值"
type rawEntry struct {
	StaffID *string `json:"staff_id"`
	StartAt *string `json:"start_at"`
	EndAt   *string `json:"end_at"`
	Role    *string `json:"role"`
}

// DecodeDraft 严格解析生成服务返回的文本：{"shifts":[...]}
//
// 任一班次不合法即整体失败，不返回部分结果。known 为 nil 时不校验员工是否在名册中。
func DecodeDraft(raw []byte, known map[string]struct{}) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	var doc struct {
		Shifts *[]json.RawMessage `json:"shifts"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.NewSchemaError("不是合法的 JSON 对象", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewSchemaError("JSON 之后存在多余内容", nil)
	}
	if doc.Shifts == nil {
		return nil, apperrors.NewSchemaError("缺少 shifts 数组", nil)
	}

	entries := make([]Entry, 0, len(*doc.Shifts))
	for i, item := range *doc.Shifts {
		e, err := decodeEntry(i, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return CheckEntries(entries, known)
}

func decodeEntry(i int, item json.RawMessage) (Entry, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Entry{}, apperrors.NewEntryError(i, "", "班次必须是对象")
	}

	var r rawEntry
	if err := json.Unmarshal(trimmed, &r); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return Entry{}, apperrors.NewEntryError(i, te.Field, "必须是字符串")
		}
		return Entry{}, &apperrors.GenerationSchemaError{Index: i, Reason: "无法解析", Err: err}
	}

	if r.StaffID == nil {
		return Entry{}, apperrors.NewEntryError(i, "staff_id", "缺少必填字段")
	}
	start, err := parseInstant(i, "start_at", r.StartAt)
	if err != nil {
		return Entry{}, err
	}
	end, err := parseInstant(i, "end_at", r.EndAt)
	if err != nil {
		return Entry{}, err
	}

	return Entry{StaffID: *r.StaffID, StartAt: start, EndAt: end, Role: r.Role}, nil
}

func parseInstant(i int, field string, v *string) (time.Time, error) {
	if v == nil {
		return time.Time{}, apperrors.NewEntryError(i, field, "缺少必填字段")
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return time.Time{}, apperrors.NewEntryError(i, field, fmt.Sprintf("不是 RFC 3339 时间: %q", *v))
	}
	return t, nil
}

// MaxRoleLength 岗位名最大长度，与 shifts.role 列一致
const MaxRoleLength = 50

// CheckEntries 校验班次结构并统一转换为 UTC
//
// 生成结果与保存请求共用这一套规则：staff_id 为 UUID 且（known 非 nil 时）属于名册，
// 起止时间非零且开始早于结束，岗位名不超过 MaxRoleLength。只校验结构，不涉及任何业务规则。
func CheckEntries(entries []Entry, known map[string]struct{}) ([]Entry, error) {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		if _, err := uuid.Parse(e.StaffID); err != nil {
			return nil, apperrors.NewEntryError(i, "staff_id", fmt.Sprintf("不是合法 UUID: %q", e.StaffID))
		}
		if known != nil {
			if _, ok := known[e.StaffID]; !ok {
				return nil, apperrors.NewEntryError(i, "staff_id", "不在员工名册中")
			}
		}
		if e.StartAt.IsZero() {
			return nil, apperrors.NewEntryError(i, "start_at", "缺少必填字段")
		}
		if e.EndAt.IsZero() {
			return nil, apperrors.NewEntryError(i, "end_at", "缺少必填字段")
		}
		if !e.StartAt.Before(e.EndAt) {
			return nil, apperrors.NewEntryError(i, "end_at", "结束时间必须晚于开始时间")
		}
		if e.Role != nil && utf8.RuneCountInString(*e.Role) > MaxRoleLength {
			return nil, apperrors.NewEntryError(i, "role", fmt.Sprintf("超过 %d 个字符", MaxRoleLength))
		}

		e.StartAt = e.StartAt.UTC()
		e.EndAt = e.EndAt.UTC()
		out[i] = e
	}
	return out, nil
}
