package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/policy"
	"shift-pilot/backend/internal/repository"
	"shift-pilot/backend/internal/shift"
	apperrors "shift-pilot/backend/pkg/errors"
)

// 聚合数据来源，用于 AggregationError.Source
const (
	sourceStorePolicy = "store_policy"
	sourceStaff       = "staff"
	sourceOffRequests = "off_requests"
)

// ContextAggregator 汇集门店策略、员工名册与休假申请
//
// 三路读取互不依赖，并发发起；任一失败即取消其余读取并整体失败，不返回部分上下文。
type ContextAggregator struct {
	repo *repository.Repository
}

// NewContextAggregator 创建聚合器
func NewContextAggregator(repo *repository.Repository) *ContextAggregator {
	return &ContextAggregator{repo: repo}
}

// Aggregate 构建 [period.Start, period.End) 的生成上下文
func (a *ContextAggregator) Aggregate(ctx context.Context, tenantID string, period shift.Period) (*shift.GenerationContext, error) {
	if !period.Start.Before(period.End) {
		return nil, apperrors.ErrInvalidPeriod
	}

	var (
		storeRow *model.StorePolicy
		staff    []model.Staff
		offs     []model.OffRequest
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		row, err := a.repo.StorePolicy.GetByTenant(gctx, tenantID)
		if err != nil {
			// 门店未配置策略时使用系统默认值
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return &apperrors.AggregationError{Source: sourceStorePolicy, Err: err}
		}
		storeRow = row
		return nil
	})

	g.Go(func() error {
		list, err := a.repo.Staff.ListActiveWithPolicy(gctx, tenantID)
		if err != nil {
			return &apperrors.AggregationError{Source: sourceStaff, Err: err}
		}
		staff = list
		return nil
	})

	g.Go(func() error {
		list, err := a.repo.OffRequest.ListByPeriod(gctx, tenantID, period.StartDate(), period.EndDate())
		if err != nil {
			return &apperrors.AggregationError{Source: sourceOffRequests, Err: err}
		}
		offs = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := policy.ResolveStore(storeRow)
	gc := &shift.GenerationContext{
		TenantID:    tenantID,
		Period:      period,
		Store:       store,
		Roster:      make([]shift.RosterMember, 0, len(staff)),
		OffRequests: make([]shift.OffRequest, 0, len(offs)),
	}

	for _, s := range staff {
		m := shift.RosterMember{
			StaffID:     s.ID,
			DisplayName: s.DisplayName,
			StoreRole:   s.StoreRole,
			Policy:      policy.ResolveStaff(store, nil),
		}
		if s.Policy != nil {
			override := s.Policy.ContractConfig.Data()
			m.Policy = policy.ResolveStaff(store, &override)
			m.HasOverride = true
		}
		gc.Roster = append(gc.Roster, m)
	}

	for _, o := range offs {
		gc.OffRequests = append(gc.OffRequests, shift.OffRequest{
			StaffID: o.StaffID,
			Date:    o.RequestDate.Format(shift.DateLayout),
			Type:    o.RequestType,
			Notes:   o.Notes,
		})
	}

	return gc, nil
}
