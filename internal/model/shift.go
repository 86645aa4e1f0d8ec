package model

import "time"

// 班次状态
const (
	ShiftStatusDraft = "draft"
)

// Shift 班次表，对应 shifts
// 自然键 (tenant_id, staff_id, shift_date, start_at) 唯一，草稿保存按此键 upsert
type Shift struct {
	ShiftID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	TenantID  string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	StaffID   string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	ShiftDate time.Time `gorm:"type:date;not null"                             json:"shift_date"` // 运营时区下的开始日期
	StartAt   time.Time `gorm:"not null"                                       json:"start_at"`
	EndAt     time.Time `gorm:"not null"                                       json:"end_at"`
	Role      *string   `gorm:"type:varchar(50)"                               json:"role,omitempty"`
	Status    string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	BaseModel

	// 关联
	Staff *Staff `gorm:"foreignKey:StaffID;references:ID" json:"staff,omitempty"`
}

func (Shift) TableName() string { return "shifts" }
