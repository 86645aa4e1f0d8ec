package repository

import (
	"context"

	"gorm.io/gorm"

	"shift-pilot/backend/internal/model"
)

// StorePolicyRepository 门店策略数据访问接口
type StorePolicyRepository interface {
	// 未配置时返回 gorm.ErrRecordNotFound
	GetByTenant(ctx context.Context, tenantID string) (*model.StorePolicy, error)
}

type storePolicyRepo struct {
	db *gorm.DB
}

// NewStorePolicyRepo 创建 StorePolicyRepository 实例
func NewStorePolicyRepo(db *gorm.DB) StorePolicyRepository {
	return &storePolicyRepo{db: db}
}

func (r *storePolicyRepo) GetByTenant(ctx context.Context, tenantID string) (*model.StorePolicy, error) {
	var p model.StorePolicy
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
