package service

import (
	"fmt"

	"go.uber.org/zap"

	"shift-pilot/backend/config"
	"shift-pilot/backend/internal/compliance"
	"shift-pilot/backend/internal/generator"
	"shift-pilot/backend/internal/repository"
	"shift-pilot/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Shift        ShiftService
	Availability AvailabilityService
	Policy       PolicyService
	Export       ExportService
}

// NewService 创建 Service 聚合
// oracle 为 nil 时生成接口返回 ErrGeneratorDisabled，其余功能不受影响
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	oracle generator.Oracle,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, fmt.Errorf("解析 schedule.timezone 失败: %w", err)
	}
	weekStart, err := cfg.Schedule.Weekday()
	if err != nil {
		return nil, err
	}

	validator := compliance.New(compliance.WithLocation(loc), compliance.WithWeekStart(weekStart))

	var gen *generator.Generator
	if oracle != nil {
		gen = generator.New(oracle, &cfg.Generator, logger.Named("generator"), m)
	}

	return &Service{
		Shift:        NewShiftService(repo, gen, validator, loc, m, logger),
		Availability: NewAvailabilityService(repo, logger),
		Policy:       NewPolicyService(repo, logger),
		Export:       NewExportService(repo, loc, logger),
	}, nil
}
