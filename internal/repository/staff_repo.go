package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-pilot/backend/internal/model"
)

// StaffRepository 员工数据访问接口（只读）
type StaffRepository interface {
	ListActiveWithPolicy(ctx context.Context, tenantID string) ([]model.Staff, error)
	GetWithPolicy(ctx context.Context, tenantID, staffID string) (*model.Staff, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) ListActiveWithPolicy(ctx context.Context, tenantID string) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Preload("Policy", "tenant_id = ?", tenantID).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("id ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) GetWithPolicy(ctx context.Context, tenantID, staffID string) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).
		Preload("Policy", "tenant_id = ?", tenantID).
		Where("tenant_id = ? AND id = ?", tenantID, staffID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
