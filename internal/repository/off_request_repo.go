package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shift-pilot/backend/internal/model"
)

// OffRequestRepository 休假申请数据访问接口
type OffRequestRepository interface {
	// 日期为 YYYY-MM-DD，半开区间 [startDate, endDate)
	ListByPeriod(ctx context.Context, tenantID, startDate, endDate string) ([]model.OffRequest, error)
	// 同一员工同一日期已存在时覆盖强度与备注
	Upsert(ctx context.Context, req *model.OffRequest) error
}

type offRequestRepo struct {
	db *gorm.DB
}

// NewOffRequestRepo 创建 OffRequestRepository 实例
func NewOffRequestRepo(db *gorm.DB) OffRequestRepository {
	return &offRequestRepo{db: db}
}

func (r *offRequestRepo) ListByPeriod(ctx context.Context, tenantID, startDate, endDate string) ([]model.OffRequest, error) {
	var reqs []model.OffRequest
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND request_date >= ? AND request_date < ?", tenantID, startDate, endDate).
		Order("request_date ASC, staff_id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *offRequestRepo) Upsert(ctx context.Context, req *model.OffRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "staff_id"}, {Name: "request_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_type", "notes", "updated_at"}),
		}).
		Create(req).Error
}
