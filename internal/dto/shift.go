package dto

import (
	"shift-pilot/backend/internal/compliance"
	"shift-pilot/backend/internal/shift"
)

// ── 排班草稿 DTO ──

// PeriodRequest 日期区间 [start, end)，格式 YYYY-MM-DD
type PeriodRequest struct {
	Start string `json:"start" form:"start" binding:"required,datetime=2006-01-02"`
	End   string `json:"end"   form:"end"   binding:"required,datetime=2006-01-02"`
}

// GenerateShiftRequest 生成排班草稿请求
type GenerateShiftRequest struct {
	PeriodRequest
}

// ValidateShiftRequest 重新校验（人工调整后的）候选班次
type ValidateShiftRequest struct {
	PeriodRequest
	Shifts []shift.Entry `json:"shifts" binding:"required,max=2000"`
}

// SaveDraftRequest 保存草稿请求
type SaveDraftRequest struct {
	Shifts []shift.Entry `json:"shifts" binding:"required,min=1,max=2000"`
}

// ── 响应 ──

// GenerateShiftResponse 生成结果：候选班次 + 合规问题
type GenerateShiftResponse struct {
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Shifts     []shift.Entry      `json:"shifts"`
	Violations []compliance.Issue `json:"violations"`
	HasErrors  bool               `json:"has_errors"`
}

// SaveDraftResponse 保存草稿结果
type SaveDraftResponse struct {
	Submitted int   `json:"submitted"`
	Saved     int64 `json:"saved"` // 非草稿行不会被覆盖，可能小于 Submitted
}

// DeleteDraftsResponse 删除草稿结果
type DeleteDraftsResponse struct {
	Deleted int64 `json:"deleted"`
}

// DraftShiftResponse 已保存的班次
type DraftShiftResponse struct {
	ID        string  `json:"id"`
	StaffID   string  `json:"staff_id"`
	StaffName string  `json:"staff_name"`
	ShiftDate string  `json:"shift_date"`
	StartAt   string  `json:"start_at"`
	EndAt     string  `json:"end_at"`
	Role      *string `json:"role,omitempty"`
	Status    string  `json:"status"`
}
