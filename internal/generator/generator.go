// Package generator 调用生成式文本服务得到候选班次，并严格校验其结构。
//
// 生成服务是不可信的外部 Oracle：每次生成只调用一次，不重试、不修复；
// 任何结构问题都使整份响应作废。业务规则不在这里判断，见 internal/compliance。
package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shift-pilot/backend/config"
	"shift-pilot/backend/internal/shift"
	apperrors "shift-pilot/backend/pkg/errors"
	"shift-pilot/backend/pkg/metrics"
)

// Generator 排班草稿生成器
type Generator struct {
	oracle       Oracle
	timeout      time.Duration
	minHeadcount int
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// New 创建生成器
func New(oracle Oracle, cfg *config.GeneratorConfig, logger *zap.Logger, m *metrics.Metrics) *Generator {
	return &Generator{
		oracle:       oracle,
		timeout:      cfg.Timeout,
		minHeadcount: cfg.MinDailyHeadcount,
		logger:       logger,
		metrics:      m,
	}
}

// Generate 生成候选班次
// 失败一律返回 *errors.GenerationSchemaError，且不返回任何班次
func (g *Generator) Generate(ctx context.Context, gc *shift.GenerationContext) ([]shift.Entry, error) {
	if len(gc.Roster) == 0 {
		return nil, apperrors.NewSchemaError("员工名册为空，无法生成", nil)
	}

	system, prompt, err := BuildInstruction(gc, g.minHeadcount)
	if err != nil {
		return nil, apperrors.NewSchemaError("构建生成指令失败", err)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.oracle.Complete(callCtx, system, prompt)
	g.metrics.ObserveOracle(time.Since(start))
	if err != nil {
		reason := "生成服务调用失败"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = "生成服务调用超时"
		}
		g.logger.Warn(reason, zap.String("tenant_id", gc.TenantID), zap.Error(err))
		return nil, apperrors.NewSchemaError(reason, err)
	}

	entries, err := shift.DecodeDraft([]byte(raw), gc.KnownStaff())
	if err != nil {
		g.logger.Warn("生成结果结构无效，已丢弃",
			zap.String("tenant_id", gc.TenantID),
			zap.Int("raw_len", len(raw)),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("生成候选班次",
		zap.String("tenant_id", gc.TenantID),
		zap.String("start", gc.Period.StartDate()),
		zap.String("end", gc.Period.EndDate()),
		zap.Int("shifts", len(entries)),
	)
	return entries, nil
}
