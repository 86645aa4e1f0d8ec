// Package compliance 对候选班次执行确定性的劳动规则校验。
//
// Validator 是纯函数：不做 I/O，不修改入参，相同输入总是得到相同且顺序稳定的结果。
// 生成服务的输出只经过结构校验，是否合规完全由这里判定。
package compliance

import (
	"time"

	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
)

// Level 问题级别
type Level string

const (
	LevelError   Level = "ERROR"   // 阻断
	LevelWarning Level = "WARNING" // 提示
)

// Code 违规类型（封闭集合）
type Code string

const (
	CodeMaxHoursExceeded        Code = "MAX_HOURS_EXCEEDED"
	CodeMidnightWorkViolation   Code = "MIDNIGHT_WORK_VIOLATION"
	CodeIntervalViolation       Code = "INTERVAL_VIOLATION"
	CodeConsecutiveDaysExceeded Code = "CONSECUTIVE_DAYS_EXCEEDED"
	CodeOffRequestConflict      Code = "OFF_REQUEST_CONFLICT"
)

// Codes 全部违规类型
var Codes = []Code{
	CodeMaxHoursExceeded,
	CodeMidnightWorkViolation,
	CodeIntervalViolation,
	CodeConsecutiveDaysExceeded,
	CodeOffRequestConflict,
}

// Issue 一条校验结果；只作为响应返回，不落库
type Issue struct {
	Level   Level  `json:"level"`
	StaffID string `json:"staff_id"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
	// Measured 实测值：周工时(h)、间隔(h) 或连续天数
	Measured *float64 `json:"measured,omitempty"`
}

// Input 校验输入
type Input struct {
	Shifts        []shift.Entry
	StaffPolicies map[string]policy.Staff // 缺失的员工按门店策略推导
	Store         policy.Store
	OffRequests   []shift.OffRequest
}

// HasErrors 是否存在阻断级问题
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Level == LevelError {
			return true
		}
	}
	return false
}

// Option 校验器选项
type Option func(*Validator)

// WithWeekStart 设置每周起始日，默认周一
func WithWeekStart(d time.Weekday) Option {
	return func(v *Validator) { v.weekStart = d }
}

// WithLocation 设置日期与深夜时段的计算时区，默认 UTC
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}
