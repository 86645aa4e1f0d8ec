package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shift-pilot/backend/internal/compliance"
	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/generator"
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/repository"
	"shift-pilot/backend/internal/shift"
	apperrors "shift-pilot/backend/pkg/errors"
	"shift-pilot/backend/pkg/metrics"
)

// ── 排班草稿模块业务错误 ──

var (
	ErrGeneratorDisabled = errors.New("未配置生成服务，无法生成排班草稿")
	ErrEmptyRoster       = errors.New("没有在职员工，无法生成排班草稿")
)

// 生成结果统计标签
const (
	outcomeOK          = "ok"
	outcomeAggregation = "aggregation_error"
	outcomeSchema      = "schema_error"
	outcomeOther       = "error"
)

// ShiftService 排班草稿业务接口
type ShiftService interface {
	// 聚合上下文 → 生成候选班次 → 合规校验
	Generate(ctx context.Context, tenantID string, req *dto.GenerateShiftRequest) (*dto.GenerateShiftResponse, error)
	// 对人工调整后的候选班次重新校验
	Validate(ctx context.Context, tenantID string, req *dto.ValidateShiftRequest) (*dto.GenerateShiftResponse, error)
	// 保存草稿（按自然键幂等）
	SaveDraft(ctx context.Context, tenantID string, req *dto.SaveDraftRequest) (*dto.SaveDraftResponse, error)
	// 查询区间内已保存的班次
	ListDrafts(ctx context.Context, tenantID string, req *dto.PeriodRequest) ([]dto.DraftShiftResponse, error)
	// 删除区间内的全部草稿
	DeleteDrafts(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*dto.DeleteDraftsResponse, error)
}

type shiftService struct {
	repo       *repository.Repository
	aggregator *ContextAggregator
	generator  *generator.Generator // 未配置生成服务时为 nil
	validator  *compliance.Validator
	loc        *time.Location
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(
	repo *repository.Repository,
	gen *generator.Generator,
	validator *compliance.Validator,
	loc *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) ShiftService {
	return &shiftService{
		repo:       repo,
		aggregator: NewContextAggregator(repo),
		generator:  gen,
		validator:  validator,
		loc:        loc,
		metrics:    m,
		logger:     logger,
	}
}

// ════════════════════════════════════════════════════════════
// Generate: 聚合 / 生成 / 校验
// ════════════════════════════════════════════════════════════

func (s *shiftService) Generate(ctx context.Context, tenantID string, req *dto.GenerateShiftRequest) (*dto.GenerateShiftResponse, error) {
	if s.generator == nil {
		return nil, ErrGeneratorDisabled
	}

	period, err := shift.NewPeriod(req.Start, req.End, s.loc)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	outcome := outcomeOther
	defer func() { s.metrics.ObserveGeneration(outcome, time.Since(started)) }()

	// 1. 聚合上下文
	gc, err := s.aggregator.Aggregate(ctx, tenantID, period)
	if err != nil {
		if apperrors.IsAggregation(err) {
			outcome = outcomeAggregation
		}
		s.logger.Error("聚合排班上下文失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	if len(gc.Roster) == 0 {
		return nil, ErrEmptyRoster
	}

	// 2. 生成候选班次（只做结构校验）
	entries, err := s.generator.Generate(ctx, gc)
	if err != nil {
		if apperrors.IsGenerationSchema(err) {
			outcome = outcomeSchema
		}
		return nil, err
	}

	// 3. 合规校验
	issues := s.check(gc, entries)
	outcome = outcomeOK

	s.logger.Info("排班草稿生成完成",
		zap.String("tenant_id", tenantID),
		zap.String("start", req.Start),
		zap.String("end", req.End),
		zap.Int("shifts", len(entries)),
		zap.Int("violations", len(issues)),
	)

	return &dto.GenerateShiftResponse{
		Start:      req.Start,
		End:        req.End,
		Shifts:     entries,
		Violations: issues,
		HasErrors:  compliance.HasErrors(issues),
	}, nil
}

// ════════════════════════════════════════════════════════════
// Validate: 重新校验
// ════════════════════════════════════════════════════════════

func (s *shiftService) Validate(ctx context.Context, tenantID string, req *dto.ValidateShiftRequest) (*dto.GenerateShiftResponse, error) {
	period, err := shift.NewPeriod(req.Start, req.End, s.loc)
	if err != nil {
		return nil, err
	}

	gc, err := s.aggregator.Aggregate(ctx, tenantID, period)
	if err != nil {
		s.logger.Error("聚合排班上下文失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}

	entries, err := shift.CheckEntries(req.Shifts, gc.KnownStaff())
	if err != nil {
		return nil, err
	}

	issues := s.check(gc, entries)
	return &dto.GenerateShiftResponse{
		Start:      req.Start,
		End:        req.End,
		Shifts:     entries,
		Violations: issues,
		HasErrors:  compliance.HasErrors(issues),
	}, nil
}

func (s *shiftService) check(gc *shift.GenerationContext, entries []shift.Entry) []compliance.Issue {
	issues := s.validator.Validate(compliance.Input{
		Shifts:        entries,
		StaffPolicies: gc.StaffPolicies(),
		Store:         gc.Store,
		OffRequests:   gc.OffRequests,
	})
	for _, is := range issues {
		s.metrics.AddViolation(string(is.Code), string(is.Level))
	}
	return issues
}

// ════════════════════════════════════════════════════════════
// SaveDraft: 按自然键写入草稿
// ════════════════════════════════════════════════════════════

func (s *shiftService) SaveDraft(ctx context.Context, tenantID string, req *dto.SaveDraftRequest) (*dto.SaveDraftResponse, error) {
	staff, err := s.repo.Staff.ListActiveWithPolicy(ctx, tenantID)
	if err != nil {
		s.logger.Error("查询员工名册失败", zap.Error(err))
		return nil, err
	}
	known := make(map[string]struct{}, len(staff))
	for _, st := range staff {
		known[st.ID] = struct{}{}
	}

	entries, err := shift.CheckEntries(req.Shifts, known)
	if err != nil {
		return nil, err
	}

	rows := s.toRows(tenantID, entries)
	saved, err := s.repo.Shift.UpsertDrafts(ctx, rows)
	if err != nil {
		s.logger.Error("保存排班草稿失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	s.metrics.AddDraftsSaved(saved)

	s.logger.Info("保存排班草稿",
		zap.String("tenant_id", tenantID),
		zap.Int("submitted", len(entries)),
		zap.Int64("saved", saved),
	)
	return &dto.SaveDraftResponse{Submitted: len(entries), Saved: saved}, nil
}

// toRows 转换为数据库行；同一自然键在一次提交中重复出现时以最后一条为准
func (s *shiftService) toRows(tenantID string, entries []shift.Entry) []model.Shift {
	type naturalKey struct {
		staffID string
		startAt int64
	}
	index := make(map[naturalKey]int, len(entries))
	rows := make([]model.Shift, 0, len(entries))

	for _, e := range entries {
		local := e.StartAt.In(s.loc)
		row := model.Shift{
			TenantID:  tenantID,
			StaffID:   e.StaffID,
			ShiftDate: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			StartAt:   e.StartAt,
			EndAt:     e.EndAt,
			Role:      e.Role,
			Status:    model.ShiftStatusDraft,
		}

		key := naturalKey{staffID: e.StaffID, startAt: e.StartAt.UnixNano()}
		if i, ok := index[key]; ok {
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

// ════════════════════════════════════════════════════════════
// ListDrafts / DeleteDrafts
// ════════════════════════════════════════════════════════════

func (s *shiftService) ListDrafts(ctx context.Context, tenantID string, req *dto.PeriodRequest) ([]dto.DraftShiftResponse, error) {
	period, err := shift.NewPeriod(req.Start, req.End, s.loc)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.Shift.ListByPeriod(ctx, tenantID, period.Start, period.End)
	if err != nil {
		s.logger.Error("查询排班草稿失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DraftShiftResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toDraftShiftResponse(&rows[i]))
	}
	return result, nil
}

func (s *shiftService) DeleteDrafts(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*dto.DeleteDraftsResponse, error) {
	period, err := shift.NewPeriod(req.Start, req.End, s.loc)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.Shift.DeleteDraftsByPeriod(ctx, tenantID, period.StartDate(), period.EndDate())
	if err != nil {
		s.logger.Error("删除排班草稿失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	s.metrics.AddDraftsDeleted(deleted)

	s.logger.Info("删除排班草稿",
		zap.String("tenant_id", tenantID),
		zap.String("start", req.Start),
		zap.String("end", req.End),
		zap.Int64("deleted", deleted),
	)
	return &dto.DeleteDraftsResponse{Deleted: deleted}, nil
}

// ── 转换辅助 ──

func toDraftShiftResponse(row *model.Shift) dto.DraftShiftResponse {
	resp := dto.DraftShiftResponse{
		ID:        row.ShiftID,
		StaffID:   row.StaffID,
		ShiftDate: row.ShiftDate.Format(shift.DateLayout),
		StartAt:   row.StartAt.UTC().Format(time.RFC3339),
		EndAt:     row.EndAt.UTC().Format(time.RFC3339),
		Role:      row.Role,
		Status:    row.Status,
	}
	if row.Staff != nil {
		resp.StaffName = row.Staff.DisplayName
	}
	return resp
}
