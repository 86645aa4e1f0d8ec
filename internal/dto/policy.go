package dto

import (
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/policy"
)

// StaffPolicyResponse 员工生效策略
type StaffPolicyResponse struct {
	StaffID         string                     `json:"staff_id"`
	DisplayName     string                     `json:"display_name"`
	StoreRole       string                     `json:"store_role"`
	IsActive        bool                       `json:"is_active"`
	Effective       policy.Staff               `json:"effective"`
	Override        *model.StaffContractConfig `json:"override,omitempty"` // 未设置个别策略时为空
	ReferenceLimits ReferenceLimits            `json:"reference_limits"`
}

// ReferenceLimits 编辑个别策略时参考的门店上限
type ReferenceLimits struct {
	StoreMaxConsecutiveDays int     `json:"store_max_consecutive_days"`
	StoreMinIntervalHours   float64 `json:"store_min_interval_hours"`
	DefaultMaxHoursPerWeek  float64 `json:"default_max_hours_per_week"`
}
