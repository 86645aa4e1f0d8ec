package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	StorePolicy StorePolicyRepository
	Staff       StaffRepository
	OffRequest  OffRequestRepository
	Shift       ShiftRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		StorePolicy: NewStorePolicyRepo(db),
		Staff:       NewStaffRepo(db),
		OffRequest:  NewOffRequestRepo(db),
		Shift:       NewShiftRepo(db),
	}
}
