package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/repository"
)

// PolicyService 员工生效策略查询
type PolicyService interface {
	GetStaffPolicy(ctx context.Context, tenantID, staffID string) (*dto.StaffPolicyResponse, error)
}

type policyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPolicyService 创建 PolicyService 实例
func NewPolicyService(repo *repository.Repository, logger *zap.Logger) PolicyService {
	return &policyService{repo: repo, logger: logger}
}

// GetStaffPolicy 返回合并后的员工策略及门店参考上限
func (s *policyService) GetStaffPolicy(ctx context.Context, tenantID, staffID string) (*dto.StaffPolicyResponse, error) {
	staff, err := s.repo.Staff.GetWithPolicy(ctx, tenantID, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	storeRow, err := s.repo.StorePolicy.GetByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询门店策略失败", zap.Error(err))
		return nil, err
	}
	store := policy.ResolveStore(storeRow)

	var override *model.StaffContractConfig
	if staff.Policy != nil {
		cfg := staff.Policy.ContractConfig.Data()
		override = &cfg
	}

	return &dto.StaffPolicyResponse{
		StaffID:     staff.ID,
		DisplayName: staff.DisplayName,
		StoreRole:   staff.StoreRole,
		IsActive:    staff.IsActive,
		Effective:   policy.ResolveStaff(store, override),
		Override:    override,
		ReferenceLimits: dto.ReferenceLimits{
			StoreMaxConsecutiveDays: store.MaxWorkingDaysConsecutive,
			StoreMinIntervalHours:   store.MinIntervalHours,
			DefaultMaxHoursPerWeek:  store.MaxHoursPerWeek,
		},
	}, nil
}
