package compliance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
)

// 深夜时段 22:00–05:00
const (
	midnightStartHour = 22
	midnightEndHour   = 5
)

// Validator 合规校验器
type Validator struct {
	weekStart time.Weekday
	loc       *time.Location
}

// New 创建校验器
func New(opts ...Option) *Validator {
	v := &Validator{weekStart: time.Monday, loc: time.UTC}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate 校验候选班次
// 结果按员工 ID 升序；同一员工内依次为 周工时、深夜、间隔、连续出勤、休假冲突
func (v *Validator) Validate(in Input) []Issue {
	groups := make(map[string][]shift.Entry)
	for _, e := range in.Shifts {
		groups[e.StaffID] = append(groups[e.StaffID], e)
	}

	staffIDs := make([]string, 0, len(groups))
	for id := range groups {
		staffIDs = append(staffIDs, id)
	}
	sort.Strings(staffIDs)

	hardOff := hardOffDates(in.OffRequests)

	issues := []Issue{}
	for _, id := range staffIDs {
		entries := groups[id]
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].StartAt.Equal(entries[j].StartAt) {
				return entries[i].StartAt.Before(entries[j].StartAt)
			}
			return entries[i].EndAt.Before(entries[j].EndAt)
		})

		pol, ok := in.StaffPolicies[id]
		if !ok {
			pol = policy.ResolveStaff(in.Store, nil)
		}

		issues = append(issues, v.checkWeeklyHours(id, entries, pol)...)
		issues = append(issues, v.checkMidnight(id, entries, pol)...)
		issues = append(issues, v.checkInterval(id, entries, in.Store)...)
		issues = append(issues, v.checkConsecutiveDays(id, entries, pol, in.Store)...)
		issues = append(issues, v.checkOffRequests(id, entries, hardOff[id])...)
	}
	return issues
}

// checkWeeklyHours 按班次开始时刻所在的周汇总工时
func (v *Validator) checkWeeklyHours(staffID string, entries []shift.Entry, pol policy.Staff) []Issue {
	totals := make(map[string]time.Duration)
	var weeks []string
	for _, e := range entries {
		wk := v.weekOf(e.StartAt)
		if _, seen := totals[wk]; !seen {
			weeks = append(weeks, wk)
		}
		totals[wk] += e.Duration()
	}
	sort.Strings(weeks)

	limit := time.Duration(pol.MaxHoursPerWeek * float64(time.Hour))
	var out []Issue
	for _, wk := range weeks {
		total := totals[wk]
		if total <= limit {
			continue
		}
		hours := round2(total.Hours())
		out = append(out, Issue{
			Level:    LevelError,
			StaffID:  staffID,
			Date:     wk,
			Message:  fmt.Sprintf("%s 起的一周工时 %.1fh 超过上限 %.1fh", wk, hours, pol.MaxHoursPerWeek),
			Code:     CodeMaxHoursExceeded,
			Measured: &hours,
		})
	}
	return out
}

// checkMidnight 不允许深夜勤务的员工，任何与 22:00–05:00 有交集的班次都违规
func (v *Validator) checkMidnight(staffID string, entries []shift.Entry, pol policy.Staff) []Issue {
	if pol.MidnightWorkAllowed {
		return nil
	}
	var out []Issue
	for _, e := range entries {
		if !v.overlapsMidnight(e.StartAt, e.EndAt) {
			continue
		}
		out = append(out, Issue{
			Level:   LevelError,
			StaffID: staffID,
			Date:    shift.DateOf(e.StartAt, v.loc),
			Message: fmt.Sprintf("班次 %s–%s 落入深夜时段（22:00–05:00），该员工不可深夜勤务",
				e.StartAt.In(v.loc).Format("01-02 15:04"), e.EndAt.In(v.loc).Format("01-02 15:04")),
			Code: CodeMidnightWorkViolation,
		})
	}
	return out
}

// overlapsMidnight 检查 [start, end) 是否与任一天的 22:00–次日 05:00 相交
// 从开始日期的前一天起逐日检查，覆盖跨日与在时段内开始/结束的班次
func (v *Validator) overlapsMidnight(start, end time.Time) bool {
	s := start.In(v.loc)
	day := time.Date(s.Year(), s.Month(), s.Day()-1, 0, 0, 0, 0, v.loc)
	for !day.After(end) {
		wStart := time.Date(day.Year(), day.Month(), day.Day(), midnightStartHour, 0, 0, 0, v.loc)
		wEnd := time.Date(day.Year(), day.Month(), day.Day()+1, midnightEndHour, 0, 0, 0, v.loc)
		if start.Before(wEnd) && end.After(wStart) {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

// checkInterval 相邻两班之间的休息间隔不足时给出提示（不阻断）
func (v *Validator) checkInterval(staffID string, entries []shift.Entry, store policy.Store) []Issue {
	minGap := time.Duration(store.MinIntervalHours * float64(time.Hour))
	var out []Issue
	for i := 1; i < len(entries); i++ {
		prev, next := entries[i-1], entries[i]
		gap := next.StartAt.Sub(prev.EndAt)
		if gap >= minGap {
			continue
		}
		hours := round2(gap.Hours())
		out = append(out, Issue{
			Level:    LevelWarning,
			StaffID:  staffID,
			Date:     shift.DateOf(next.StartAt, v.loc),
			Message:  fmt.Sprintf("两班间隔 %.1fh 少于最低休息间隔 %.1fh", hours, store.MinIntervalHours),
			Code:     CodeIntervalViolation,
			Measured: &hours,
		})
	}
	return out
}

// checkConsecutiveDays 以开始日期计出勤日，连续出勤超过上限的每一段各报一次
func (v *Validator) checkConsecutiveDays(staffID string, entries []shift.Entry, pol policy.Staff, store policy.Store) []Issue {
	limit := pol.MaxConsecutiveWorkingDays
	if store.MaxWorkingDaysConsecutive > 0 && (limit <= 0 || store.MaxWorkingDaysConsecutive < limit) {
		limit = store.MaxWorkingDaysConsecutive
	}
	if limit <= 0 {
		return nil
	}

	var days []time.Time
	seen := make(map[string]bool)
	for _, e := range entries {
		s := e.StartAt.In(v.loc)
		d := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
		key := d.Format(shift.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var out []Issue
	flush := func(first, last time.Time, n int) {
		if n <= limit {
			return
		}
		measured := float64(n)
		out = append(out, Issue{
			Level:   LevelError,
			StaffID: staffID,
			Date:    first.Format(shift.DateLayout),
			Message: fmt.Sprintf("%s 至 %s 连续出勤 %d 天，超过上限 %d 天",
				first.Format(shift.DateLayout), last.Format(shift.DateLayout), n, limit),
			Code:     CodeConsecutiveDaysExceeded,
			Measured: &measured,
		})
	}

	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j+1].Equal(days[j].AddDate(0, 0, 1)) {
			j++
		}
		flush(days[i], days[j], j-i+1)
		i = j + 1
	}
	return out
}

// checkOffRequests 与必须休息日（运营时区整日）有交集的班次视为冲突，每个日期报一次
func (v *Validator) checkOffRequests(staffID string, entries []shift.Entry, dates []string) []Issue {
	var out []Issue
	for _, date := range dates {
		dayStart, err := time.ParseInLocation(shift.DateLayout, date, v.loc)
		if err != nil {
			continue
		}
		dayEnd := dayStart.AddDate(0, 0, 1)
		for _, e := range entries {
			if e.StartAt.Before(dayEnd) && e.EndAt.After(dayStart) {
				out = append(out, Issue{
					Level:   LevelError,
					StaffID: staffID,
					Date:    date,
					Message: fmt.Sprintf("%s 已申请休息，但被安排了班次", date),
					Code:    CodeOffRequestConflict,
				})
				break
			}
		}
	}
	return out
}

// weekOf 返回时刻所在周的起始日期
func (v *Validator) weekOf(t time.Time) string {
	l := t.In(v.loc)
	offset := (int(l.Weekday()) - int(v.weekStart) + 7) % 7
	return time.Date(l.Year(), l.Month(), l.Day()-offset, 0, 0, 0, 0, v.loc).Format(shift.DateLayout)
}

// hardOffDates 按员工归集必须休息日，去重并排序
func hardOffDates(reqs []shift.OffRequest) map[string][]string {
	seen := make(map[string]map[string]bool)
	out := make(map[string][]string)
	for _, r := range reqs {
		if !r.Hard() {
			continue
		}
		if seen[r.StaffID] == nil {
			seen[r.StaffID] = make(map[string]bool)
		}
		if seen[r.StaffID][r.Date] {
			continue
		}
		seen[r.StaffID][r.Date] = true
		out[r.StaffID] = append(out[r.StaffID], r.Date)
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
