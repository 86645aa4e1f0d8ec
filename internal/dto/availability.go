package dto

// ── 休假申请 DTO ──

// AvailabilityRequest 提交休假申请
// 员工账号只能为本人提交，StaffID 可省略；管理员必须指定
type AvailabilityRequest struct {
	StaffID  string  `json:"staff_id" binding:"omitempty,uuid"`
	Date     string  `json:"date"     binding:"required,datetime=2006-01-02"`
	Strength string  `json:"strength" binding:"required,oneof=off preferred_off"`
	Notes    *string `json:"notes"    binding:"omitempty,max=500"`
}

// AvailabilityResponse 休假申请
type AvailabilityResponse struct {
	ID       string  `json:"id"`
	StaffID  string  `json:"staff_id"`
	Date     string  `json:"date"`
	Strength string  `json:"strength"`
	Notes    *string `json:"notes,omitempty"`
}
