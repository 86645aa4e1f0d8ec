package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shift-pilot/backend/internal/model"
)

// ShiftRepository 班次草稿数据访问接口
type ShiftRepository interface {
	// 按自然键 (tenant_id, staff_id, shift_date, start_at) 写入；
	// 已存在且仍为草稿的行更新 end_at/role，非草稿行保持不变。返回实际写入行数
	UpsertDrafts(ctx context.Context, rows []model.Shift) (int64, error)
	// [start_at, end_at) 与 [start, end) 相交的班次，附带员工信息
	ListByPeriod(ctx context.Context, tenantID string, start, end time.Time) ([]model.Shift, error)
	// 删除 shift_date ∈ [startDate, endDate) 的草稿，返回删除行数
	DeleteDraftsByPeriod(ctx context.Context, tenantID, startDate, endDate string) (int64, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) UpsertDrafts(ctx context.Context, rows []model.Shift) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "staff_id"}, {Name: "shift_date"}, {Name: "start_at"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"end_at", "role", "updated_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Table: "shifts", Name: "status"}, Value: model.ShiftStatusDraft},
			}},
		}).
		CreateInBatches(&rows, 200)
	return result.RowsAffected, result.Error
}

func (r *shiftRepo) ListByPeriod(ctx context.Context, tenantID string, start, end time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("tenant_id = ? AND start_at < ? AND end_at > ?", tenantID, end, start).
		Order("start_at ASC, staff_id ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) DeleteDraftsByPeriod(ctx context.Context, tenantID, startDate, endDate string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND shift_date >= ? AND shift_date < ?",
			tenantID, model.ShiftStatusDraft, startDate, endDate).
		Delete(&model.Shift{})
	return result.RowsAffected, result.Error
}
