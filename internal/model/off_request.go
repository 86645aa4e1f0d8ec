package model

import "time"

// 休假申请强度
const (
	OffRequestHard      = "off"           // 必须休息
	OffRequestPreferred = "preferred_off" // 尽量休息
)

// OffRequest 休假申请表，对应 off_requests
// 同一员工同一日期只保留一条，重复提交以最新为准
type OffRequest struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	StaffID     string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	RequestDate time.Time `gorm:"type:date;not null"                             json:"request_date"`
	RequestType string    `gorm:"type:varchar(20);not null;default:'off'"        json:"request_type"` // off | preferred_off
	Notes       *string   `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (OffRequest) TableName() string { return "off_requests" }
