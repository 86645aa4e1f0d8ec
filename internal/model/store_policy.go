package model

import "gorm.io/datatypes"

// StorePolicy 门店策略表，对应 store_policies
// 所有列均可为空：未配置的字段在解析时回落到系统默认值（见 internal/policy）
type StorePolicy struct {
	TenantID            string                             `gorm:"type:uuid;primaryKey"         json:"tenant_id"`
	ShiftCycle          *string                            `gorm:"type:varchar(20)"             json:"shift_cycle,omitempty"` // weekly | bi_weekly | monthly
	SalaryClosingDay    *int                               `gorm:"type:smallint"                json:"salary_closing_day,omitempty"`
	ShiftStartDay       *int                               `gorm:"type:smallint"                json:"shift_start_day,omitempty"`
	TargetLaborCostRate *float64                           `gorm:"type:numeric(5,2)"            json:"target_labor_cost_rate,omitempty"`
	TargetSalesDaily    *int64                             `json:"target_sales_daily,omitempty"`
	LaborLawConfig      datatypes.JSONType[LaborLawConfig] `gorm:"type:jsonb;not null;default:'{}'" json:"labor_law_config"`
	BaseModel
}

func (StorePolicy) TableName() string { return "store_policies" }

// LaborLawConfig 劳动法相关配置（JSONB）
type LaborLawConfig struct {
	MaxWorkingDaysConsecutive *int        `json:"max_working_days_consecutive,omitempty"`
	MinIntervalHours          *float64    `json:"min_interval_hours,omitempty"`
	BreakRules                []BreakRule `json:"break_rules,omitempty"`
}

// BreakRule 工作满 ThresholdHours 小时需休息 BreakMinutes 分钟
type BreakRule struct {
	ThresholdHours float64 `json:"threshold_hours"`
	BreakMinutes   int     `json:"break_minutes"`
}
