package model

import (
	"time"

	"gorm.io/datatypes"
)

// Staff 员工表，对应 staff（由外部管理端维护，排班核心只读）
type Staff struct {
	ID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string `gorm:"type:uuid;not null"                             json:"tenant_id"`
	DisplayName string `gorm:"type:varchar(100);not null"                     json:"display_name"`
	StoreRole   string `gorm:"type:varchar(50);not null;default:'staff'"      json:"store_role"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Policy *StaffPolicy `gorm:"foreignKey:StaffID;references:ID" json:"policy,omitempty"`
}

func (Staff) TableName() string { return "staff" }

// StaffPolicy 员工合同策略表，对应 staff_policies
type StaffPolicy struct {
	StaffID        string                                  `gorm:"type:uuid;primaryKey"              json:"staff_id"`
	TenantID       string                                  `gorm:"type:uuid;primaryKey"              json:"tenant_id"`
	ContractConfig datatypes.JSONType[StaffContractConfig] `gorm:"type:jsonb;not null;default:'{}'" json:"contract_config"`
	UpdatedAt      time.Time                               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StaffPolicy) TableName() string { return "staff_policies" }

// StaffContractConfig 员工个别设定；缺省字段继承门店/系统默认
type StaffContractConfig struct {
	MaxHoursPerWeek           *float64 `json:"max_hours_per_week,omitempty"`
	MidnightWorkAllowed       *bool    `json:"midnight_work_allowed,omitempty"`
	MaxConsecutiveWorkingDays *int     `json:"max_consecutive_working_days,omitempty"`
}
