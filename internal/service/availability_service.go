package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/repository"
	"shift-pilot/backend/internal/shift"
)

// ── 休假申请模块业务错误 ──

var (
	ErrStaffNotFound       = errors.New("员工不存在")
	ErrStaffInactive       = errors.New("员工已停用")
	ErrStaffIDRequired     = errors.New("管理员提交时必须指定 staff_id")
	ErrRequestForOtherUser = errors.New("只能为本人提交休假申请")
	ErrInvalidRequestDate  = errors.New("申请日期无效")
)

// Caller 调用方身份（来自 JWT）
type Caller struct {
	UserID   string
	TenantID string
	StaffID  string
	Role     string
}

// IsAdmin 是否为管理员
func (c Caller) IsAdmin() bool { return c.Role == "admin" }

// AvailabilityService 休假申请业务接口
type AvailabilityService interface {
	Submit(ctx context.Context, caller Caller, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

func (s *availabilityService) Submit(ctx context.Context, caller Caller, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	// 1. 确定申请人
	staffID := req.StaffID
	switch {
	case caller.IsAdmin():
		if staffID == "" {
			return nil, ErrStaffIDRequired
		}
	default:
		if staffID == "" {
			staffID = caller.StaffID
		}
		if staffID == "" || staffID != caller.StaffID {
			return nil, ErrRequestForOtherUser
		}
	}

	date, err := time.Parse(shift.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidRequestDate
	}

	// 2. 校验员工属于当前租户且在职
	staff, err := s.repo.Staff.GetWithPolicy(ctx, caller.TenantID, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}

	// 3. 写入（同日重复提交以最新为准）
	off := &model.OffRequest{
		TenantID:    caller.TenantID,
		StaffID:     staffID,
		RequestDate: date,
		RequestType: req.Strength,
		Notes:       req.Notes,
	}
	if err := s.repo.OffRequest.Upsert(ctx, off); err != nil {
		s.logger.Error("保存休假申请失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("提交休假申请",
		zap.String("tenant_id", caller.TenantID),
		zap.String("staff_id", staffID),
		zap.String("date", req.Date),
		zap.String("strength", req.Strength),
		zap.String("by", caller.UserID),
	)

	return &dto.AvailabilityResponse{
		ID:       off.ID,
		StaffID:  staffID,
		Date:     req.Date,
		Strength: req.Strength,
		Notes:    req.Notes,
	}, nil
}
