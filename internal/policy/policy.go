// Package policy 负责把门店策略、员工合同设定与系统默认值合并为生效策略。
//
// 合并顺序固定为：员工个别设定 → 门店设定 → 系统默认值。
// 系统默认值只在 Defaults 中声明一次，其余代码一律通过 ResolveStore / ResolveStaff 取值。
package policy

import (
	"sort"

	"shift-pilot/backend/internal/model"
)

// 排班周期
const (
	CycleWeekly   = "weekly"
	CycleBiWeekly = "bi_weekly"
	CycleMonthly  = "monthly"
)

// ClosingDayMonthEnd 工资结算日为月末
const ClosingDayMonthEnd = 99

// BreakRule 工作满 ThresholdHours 小时需休息 BreakMinutes 分钟
type BreakRule struct {
	ThresholdHours float64 `json:"threshold_hours" yaml:"threshold_hours"`
	BreakMinutes   int     `json:"break_minutes"   yaml:"break_minutes"`
}

// Store 已补齐默认值的门店策略
type Store struct {
	ShiftCycle                string      `json:"shift_cycle"`
	SalaryClosingDay          int         `json:"salary_closing_day"`
	ShiftStartDay             int         `json:"shift_start_day"`
	TargetLaborCostRate       float64     `json:"target_labor_cost_rate"`
	TargetSalesDaily          int64       `json:"target_sales_daily"`
	MaxHoursPerWeek           float64     `json:"max_hours_per_week"`
	MidnightWorkAllowed       bool        `json:"midnight_work_allowed"`
	MaxWorkingDaysConsecutive int         `json:"max_working_days_consecutive"`
	MinIntervalHours          float64     `json:"min_interval_hours"`
	BreakRules                []BreakRule `json:"break_rules"`
}

// Staff 已合并的员工生效策略
type Staff struct {
	MaxHoursPerWeek           float64 `json:"max_hours_per_week"`
	MidnightWorkAllowed       bool    `json:"midnight_work_allowed"`
	MaxConsecutiveWorkingDays int     `json:"max_consecutive_working_days"`
}

// Defaults 系统默认值（唯一来源）
var Defaults = Store{
	ShiftCycle:                CycleMonthly,
	SalaryClosingDay:          ClosingDayMonthEnd,
	ShiftStartDay:             1,
	TargetLaborCostRate:       30.0,
	TargetSalesDaily:          0,
	MaxHoursPerWeek:           40,
	MidnightWorkAllowed:       true,
	MaxWorkingDaysConsecutive: 6,
	MinIntervalHours:          11,
	BreakRules: []BreakRule{
		{ThresholdHours: 6, BreakMinutes: 45},
		{ThresholdHours: 8, BreakMinutes: 60},
	},
}

// ResolveStore 以系统默认值补齐门店策略；row 为 nil 表示门店尚未配置
// 零值、负数与未知枚举值均视为未设置
func ResolveStore(row *model.StorePolicy) Store {
	out := Defaults
	out.BreakRules = cloneRules(Defaults.BreakRules)
	if row == nil {
		return out
	}

	if row.ShiftCycle != nil && validCycle(*row.ShiftCycle) {
		out.ShiftCycle = *row.ShiftCycle
	}
	if row.SalaryClosingDay != nil && validClosingDay(*row.SalaryClosingDay) {
		out.SalaryClosingDay = *row.SalaryClosingDay
	}
	if row.ShiftStartDay != nil && *row.ShiftStartDay >= 1 && *row.ShiftStartDay <= 28 {
		out.ShiftStartDay = *row.ShiftStartDay
	}
	out.TargetLaborCostRate = positiveFloat(row.TargetLaborCostRate, out.TargetLaborCostRate)
	if row.TargetSalesDaily != nil && *row.TargetSalesDaily > 0 {
		out.TargetSalesDaily = *row.TargetSalesDaily
	}

	law := row.LaborLawConfig.Data()
	out.MaxWorkingDaysConsecutive = positiveInt(law.MaxWorkingDaysConsecutive, out.MaxWorkingDaysConsecutive)
	out.MinIntervalHours = positiveFloat(law.MinIntervalHours, out.MinIntervalHours)
	if rules := normalizeRules(law.BreakRules); len(rules) > 0 {
		out.BreakRules = rules
	}
	return out
}

// ResolveStaff 合并员工个别设定与门店策略
// 连续出勤上限取员工设定与门店设定中较小者
func ResolveStaff(store Store, override *model.StaffContractConfig) Staff {
	out := Staff{
		MaxHoursPerWeek:           store.MaxHoursPerWeek,
		MidnightWorkAllowed:       store.MidnightWorkAllowed,
		MaxConsecutiveWorkingDays: store.MaxWorkingDaysConsecutive,
	}
	if override == nil {
		return out
	}

	out.MaxHoursPerWeek = positiveFloat(override.MaxHoursPerWeek, out.MaxHoursPerWeek)
	if override.MidnightWorkAllowed != nil {
		out.MidnightWorkAllowed = *override.MidnightWorkAllowed
	}
	if n := positiveInt(override.MaxConsecutiveWorkingDays, 0); n > 0 && n < out.MaxConsecutiveWorkingDays {
		out.MaxConsecutiveWorkingDays = n
	}
	return out
}

// RequiredBreakMinutes 返回连续工作 hours 小时所需的休息分钟数（取满足的最高档）
func (s Store) RequiredBreakMinutes(hours float64) int {
	minutes := 0
	for _, r := range s.BreakRules {
		if hours >= r.ThresholdHours && r.BreakMinutes > minutes {
			minutes = r.BreakMinutes
		}
	}
	return minutes
}

func validCycle(c string) bool {
	switch c {
	case CycleWeekly, CycleBiWeekly, CycleMonthly:
		return true
	}
	return false
}

func validClosingDay(d int) bool {
	return (d >= 1 && d <= 28) || d == ClosingDayMonthEnd
}

func positiveFloat(v *float64, fallback float64) float64 {
	if v != nil && *v > 0 {
		return *v
	}
	return fallback
}

func positiveInt(v *int, fallback int) int {
	if v != nil && *v > 0 {
		return *v
	}
	return fallback
}

// normalizeRules 丢弃无效档位并按阈值升序排列
func normalizeRules(in []model.BreakRule) []BreakRule {
	out := make([]BreakRule, 0, len(in))
	for _, r := range in {
		if r.ThresholdHours <= 0 || r.BreakMinutes <= 0 {
			continue
		}
		out = append(out, BreakRule{ThresholdHours: r.ThresholdHours, BreakMinutes: r.BreakMinutes})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ThresholdHours < out[j].ThresholdHours })
	return out
}

func cloneRules(in []BreakRule) []BreakRule {
	out := make([]BreakRule, len(in))
	copy(out, in)
	return out
}
