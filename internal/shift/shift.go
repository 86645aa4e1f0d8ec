// Package shift 定义排班草稿生成与校验共用的内存类型。
package shift

import (
	"fmt"
	"time"

	"shift-pilot/backend/internal/policy"
	apperrors "shift-pilot/backend/pkg/errors"
)

// DateLayout 日历日期格式
const DateLayout = "2006-01-02"

// 休假申请强度
const (
	RequestOff          = "off"
	RequestPreferredOff = "preferred_off"
)

// Entry 一条候选班次；时间均为 UTC
type Entry struct {
	StaffID string    `json:"staff_id"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Role    *string   `json:"role,omitempty"`
}

// Duration 班次时长
func (e Entry) Duration() time.Duration { return e.EndAt.Sub(e.StartAt) }

// OffRequest 某员工某日的休假申请
type OffRequest struct {
	StaffID string  `json:"staff_id"`
	Date    string  `json:"date"` // YYYY-MM-DD（运营时区）
	Type    string  `json:"type"` // off | preferred_off
	Notes   *string `json:"notes,omitempty"`
}

// Hard 是否为必须休息
func (r OffRequest) Hard() bool { return r.Type == RequestOff }

// Period 半开区间 [Start, End)，边界为运营时区的零点
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod 解析 YYYY-MM-DD 形式的起止日期
func NewPeriod(start, end string, loc *time.Location) (Period, error) {
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start=%q", apperrors.ErrInvalidPeriod, start)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end=%q", apperrors.ErrInvalidPeriod, end)
	}
	if !s.Before(e) {
		return Period{}, fmt.Errorf("%w: %s 不早于 %s", apperrors.ErrInvalidPeriod, start, end)
	}
	return Period{Start: s, End: e}, nil
}

// Contains 判断时刻是否落在区间内
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// StartDate 起始日期
func (p Period) StartDate() string { return p.Start.Format(DateLayout) }

// EndDate 结束日期（不含）
func (p Period) EndDate() string { return p.End.Format(DateLayout) }

// Days 区间内的全部日期
func (p Period) Days() []string {
	var days []string
	for d := p.Start; d.Before(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// DateOf 返回时刻在 loc 下的日历日期
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// RosterMember 参与排班的员工及其生效策略
type RosterMember struct {
	StaffID     string       `json:"staff_id"`
	DisplayName string       `json:"display_name"`
	StoreRole   string       `json:"store_role"`
	Policy      policy.Staff `json:"policy"`
	HasOverride bool         `json:"has_override"`
}

// GenerationContext 一次生成请求所需的全部只读数据
type GenerationContext struct {
	TenantID    string         `json:"tenant_id"`
	Period      Period         `json:"-"`
	Store       policy.Store   `json:"store_policy"`
	Roster      []RosterMember `json:"staff"`
	OffRequests []OffRequest   `json:"off_requests"`
}

// StaffPolicies 以员工 ID 为键的生效策略
func (g *GenerationContext) StaffPolicies() map[string]policy.Staff {
	out := make(map[string]policy.Staff, len(g.Roster))
	for _, m := range g.Roster {
		out[m.StaffID] = m.Policy
	}
	return out
}

// KnownStaff 名册中的员工 ID 集合
func (g *GenerationContext) KnownStaff() map[string]struct{} {
	out := make(map[string]struct{}, len(g.Roster))
	for _, m := range g.Roster {
		out[m.StaffID] = struct{}{}
	}
	return out
}
