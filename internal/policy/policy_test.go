package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"shift-pilot/backend/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestResolveStore_NilRowUsesDefaults(t *testing.T) {
	got := ResolveStore(nil)

	assert.Equal(t, CycleMonthly, got.ShiftCycle)
	assert.Equal(t, ClosingDayMonthEnd, got.SalaryClosingDay)
	assert.Equal(t, 1, got.ShiftStartDay)
	assert.Equal(t, 30.0, got.TargetLaborCostRate)
	assert.Equal(t, 40.0, got.MaxHoursPerWeek)
	assert.True(t, got.MidnightWorkAllowed)
	assert.Equal(t, 6, got.MaxWorkingDaysConsecutive)
	assert.Equal(t, 11.0, got.MinIntervalHours)
	assert.Equal(t, []BreakRule{{6, 45}, {8, 60}}, got.BreakRules)
}

func TestResolveStore_DoesNotShareDefaultRules(t *testing.T) {
	got := ResolveStore(nil)
	got.BreakRules[0].BreakMinutes = 1

	assert.Equal(t, 45, Defaults.BreakRules[0].BreakMinutes, "修改结果不应影响 Defaults")
}

func TestResolveStore_StoreValuesOverrideDefaults(t *testing.T) {
	row := &model.StorePolicy{
		TenantID:            "t1",
		ShiftCycle:          ptr(CycleWeekly),
		SalaryClosingDay:    ptr(25),
		TargetLaborCostRate: ptr(28.5),
		LaborLawConfig: datatypes.NewJSONType(model.LaborLawConfig{
			MaxWorkingDaysConsecutive: ptr(5),
			MinIntervalHours:          ptr(9.0),
			BreakRules: []model.BreakRule{
				{ThresholdHours: 9, BreakMinutes: 75},
				{ThresholdHours: 4, BreakMinutes: 15},
				{ThresholdHours: 0, BreakMinutes: 30},
			},
		}),
	}

	got := ResolveStore(row)

	assert.Equal(t, CycleWeekly, got.ShiftCycle)
	assert.Equal(t, 25, got.SalaryClosingDay)
	assert.Equal(t, 28.5, got.TargetLaborCostRate)
	assert.Equal(t, 5, got.MaxWorkingDaysConsecutive)
	assert.Equal(t, 9.0, got.MinIntervalHours)
	assert.Equal(t, []BreakRule{{4, 15}, {9, 75}}, got.BreakRules, "无效档位应被丢弃并按阈值排序")
}

func TestResolveStore_InvalidValuesCountAsUnset(t *testing.T) {
	row := &model.StorePolicy{
		ShiftCycle:       ptr("daily"),
		SalaryClosingDay: ptr(31),
		ShiftStartDay:    ptr(0),
		TargetSalesDaily: ptr(int64(-5)),
		LaborLawConfig: datatypes.NewJSONType(model.LaborLawConfig{
			MaxWorkingDaysConsecutive: ptr(0),
			MinIntervalHours:          ptr(-1.0),
		}),
	}

	got := ResolveStore(row)

	assert.Equal(t, Defaults.ShiftCycle, got.ShiftCycle)
	assert.Equal(t, Defaults.SalaryClosingDay, got.SalaryClosingDay)
	assert.Equal(t, Defaults.ShiftStartDay, got.ShiftStartDay)
	assert.Equal(t, Defaults.TargetSalesDaily, got.TargetSalesDaily)
	assert.Equal(t, Defaults.MaxWorkingDaysConsecutive, got.MaxWorkingDaysConsecutive)
	assert.Equal(t, Defaults.MinIntervalHours, got.MinIntervalHours)
}

func TestResolveStaff_MergeOrder(t *testing.T) {
	store := ResolveStore(&model.StorePolicy{
		LaborLawConfig: datatypes.NewJSONType(model.LaborLawConfig{MaxWorkingDaysConsecutive: ptr(5)}),
	})

	tests := []struct {
		name     string
		override *model.StaffContractConfig
		want     Staff
	}{
		{
			name:     "无个别设定时继承门店与系统默认",
			override: nil,
			want:     Staff{MaxHoursPerWeek: 40, MidnightWorkAllowed: true, MaxConsecutiveWorkingDays: 5},
		},
		{
			name:     "空设定等同于未设置",
			override: &model.StaffContractConfig{},
			want:     Staff{MaxHoursPerWeek: 40, MidnightWorkAllowed: true, MaxConsecutiveWorkingDays: 5},
		},
		{
			name: "员工设定优先",
			override: &model.StaffContractConfig{
				MaxHoursPerWeek:           ptr(20.0),
				MidnightWorkAllowed:       ptr(false),
				MaxConsecutiveWorkingDays: ptr(3),
			},
			want: Staff{MaxHoursPerWeek: 20, MidnightWorkAllowed: false, MaxConsecutiveWorkingDays: 3},
		},
		{
			name:     "连续出勤上限取较小者",
			override: &model.StaffContractConfig{MaxConsecutiveWorkingDays: ptr(7)},
			want:     Staff{MaxHoursPerWeek: 40, MidnightWorkAllowed: true, MaxConsecutiveWorkingDays: 5},
		},
		{
			name:     "非正数工时视为未设置",
			override: &model.StaffContractConfig{MaxHoursPerWeek: ptr(0.0)},
			want:     Staff{MaxHoursPerWeek: 40, MidnightWorkAllowed: true, MaxConsecutiveWorkingDays: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStaff(store, tt.override))
		})
	}
}

func TestRequiredBreakMinutes(t *testing.T) {
	store := ResolveStore(nil)

	assert.Equal(t, 0, store.RequiredBreakMinutes(5.5))
	assert.Equal(t, 45, store.RequiredBreakMinutes(6))
	assert.Equal(t, 45, store.RequiredBreakMinutes(7.9))
	assert.Equal(t, 60, store.RequiredBreakMinutes(8))
	assert.Equal(t, 60, store.RequiredBreakMinutes(12))
}
