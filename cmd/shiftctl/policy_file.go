package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"shift-pilot/backend/config"
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/shift"
)

// policyFile 本地策略文件；字段含义与 store_policies / staff_policies 表一致，缺省项取系统默认值
type policyFile struct {
	Store struct {
		ShiftCycle                *string            `yaml:"shift_cycle"`
		SalaryClosingDay          *int               `yaml:"salary_closing_day"`
		ShiftStartDay             *int               `yaml:"shift_start_day"`
		TargetLaborCostRate       *float64           `yaml:"target_labor_cost_rate"`
		TargetSalesDaily          *int64             `yaml:"target_sales_daily"`
		MaxWorkingDaysConsecutive *int               `yaml:"max_working_days_consecutive"`
		MinIntervalHours          *float64           `yaml:"min_interval_hours"`
		BreakRules                []policy.BreakRule `yaml:"break_rules"`
	} `yaml:"store"`

	Staff []struct {
		ID                        string   `yaml:"id"`
		Name                      string   `yaml:"name"`
		Role                      string   `yaml:"role"`
		MaxHoursPerWeek           *float64 `yaml:"max_hours_per_week"`
		MidnightWorkAllowed       *bool    `yaml:"midnight_work_allowed"`
		MaxConsecutiveWorkingDays *int     `yaml:"max_consecutive_working_days"`
	} `yaml:"staff"`

	OffRequests []struct {
		StaffID string  `yaml:"staff_id"`
		Date    string  `yaml:"date"`
		Type    string  `yaml:"type"` // off | preferred_off
		Notes   *string `yaml:"notes"`
	} `yaml:"off_requests"`
}

func loadPolicyFile(path string) (*policyFile, error) {
	pf := &policyFile{}
	if path == "" {
		return pf, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取策略文件失败: %w", err)
	}
	if err := yaml.Unmarshal(raw, pf); err != nil {
		return nil, fmt.Errorf("解析策略文件失败: %w", err)
	}
	for i, o := range pf.OffRequests {
		if _, err := time.Parse(shift.DateLayout, o.Date); err != nil {
			return nil, fmt.Errorf("off_requests[%d].date 无效: %q", i, o.Date)
		}
	}
	return pf, nil
}

func (pf *policyFile) offRequests() []shift.OffRequest {
	out := make([]shift.OffRequest, 0, len(pf.OffRequests))
	for _, o := range pf.OffRequests {
		out = append(out, shift.OffRequest{StaffID: o.StaffID, Date: o.Date, Type: o.Type, Notes: o.Notes})
	}
	return out
}

// storePolicy 经由与服务端相同的合并逻辑得到生效门店策略
func (pf *policyFile) storePolicy() policy.Store {
	rules := make([]model.BreakRule, 0, len(pf.Store.BreakRules))
	for _, r := range pf.Store.BreakRules {
		rules = append(rules, model.BreakRule{ThresholdHours: r.ThresholdHours, BreakMinutes: r.BreakMinutes})
	}
	return policy.ResolveStore(&model.StorePolicy{
		ShiftCycle:          pf.Store.ShiftCycle,
		SalaryClosingDay:    pf.Store.SalaryClosingDay,
		ShiftStartDay:       pf.Store.ShiftStartDay,
		TargetLaborCostRate: pf.Store.TargetLaborCostRate,
		TargetSalesDaily:    pf.Store.TargetSalesDaily,
		LaborLawConfig: datatypes.NewJSONType(model.LaborLawConfig{
			MaxWorkingDaysConsecutive: pf.Store.MaxWorkingDaysConsecutive,
			MinIntervalHours:          pf.Store.MinIntervalHours,
			BreakRules:                rules,
		}),
	})
}

// roster 名册及各员工生效策略
func (pf *policyFile) roster(store policy.Store) []shift.RosterMember {
	out := make([]shift.RosterMember, 0, len(pf.Staff))
	for _, s := range pf.Staff {
		override := &model.StaffContractConfig{
			MaxHoursPerWeek:           s.MaxHoursPerWeek,
			MidnightWorkAllowed:       s.MidnightWorkAllowed,
			MaxConsecutiveWorkingDays: s.MaxConsecutiveWorkingDays,
		}
		out = append(out, shift.RosterMember{
			StaffID:     s.ID,
			DisplayName: s.Name,
			StoreRole:   s.Role,
			Policy:      policy.ResolveStaff(store, override),
			HasOverride: s.MaxHoursPerWeek != nil || s.MidnightWorkAllowed != nil || s.MaxConsecutiveWorkingDays != nil,
		})
	}
	return out
}

// calendar 读取 --tz / --week-start，校验方式与服务端配置一致
func calendar(cmd *cobra.Command) (*time.Location, time.Weekday, error) {
	tz, _ := cmd.Flags().GetString("tz")
	ws, _ := cmd.Flags().GetString("week-start")
	sc := config.ScheduleConfig{Timezone: tz, WeekStart: ws}

	loc, err := sc.Location()
	if err != nil {
		return nil, 0, fmt.Errorf("无效的时区 %q: %w", tz, err)
	}
	weekStart, err := sc.Weekday()
	if err != nil {
		return nil, 0, err
	}
	return loc, weekStart, nil
}
