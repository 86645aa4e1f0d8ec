package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 排班生成链路的 Prometheus 指标
// 所有方法对 nil 接收者安全，测试与未启用指标时可直接传 nil
type Metrics struct {
	gatherer prometheus.Gatherer

	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	OracleDuration     prometheus.Histogram
	ViolationsTotal    *prometheus.CounterVec
	DraftRowsSaved     prometheus.Counter
	DraftRowsDeleted   prometheus.Counter
}

// NewMetrics 在指定 registry 上创建并注册指标
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shift_generations_total",
				Help: "Total number of draft generation requests by outcome",
			},
			[]string{"outcome"}, // ok | aggregation_error | schema_error
		),

		GenerationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shift_generation_duration_seconds",
				Help:    "End-to-end duration of aggregate + generate + validate",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
			},
		),

		OracleDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shift_oracle_call_duration_seconds",
				Help:    "Duration of the single generative service call",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
			},
		),

		ViolationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shift_violations_total",
				Help: "Compliance issues reported, by code and level",
			},
			[]string{"code", "level"},
		),

		DraftRowsSaved: f.NewCounter(
			prometheus.CounterOpts{
				Name: "shift_draft_rows_saved_total",
				Help: "Draft shift rows inserted or refreshed",
			},
		),

		DraftRowsDeleted: f.NewCounter(
			prometheus.CounterOpts{
				Name: "shift_draft_rows_deleted_total",
				Help: "Draft shift rows deleted by period",
			},
		),
	}
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveGeneration 记录一次生成请求的结果与耗时
func (m *Metrics) ObserveGeneration(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(elapsed.Seconds())
}

// ObserveOracle 记录外部生成服务调用耗时
func (m *Metrics) ObserveOracle(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.OracleDuration.Observe(elapsed.Seconds())
}

// AddViolation 累加一条合规问题
func (m *Metrics) AddViolation(code, level string) {
	if m == nil {
		return
	}
	m.ViolationsTotal.WithLabelValues(code, level).Inc()
}

// AddDraftsSaved 累加保存的草稿行数
func (m *Metrics) AddDraftsSaved(n int64) {
	if m == nil {
		return
	}
	m.DraftRowsSaved.Add(float64(n))
}

// AddDraftsDeleted 累加删除的草稿行数
func (m *Metrics) AddDraftsDeleted(n int64) {
	if m == nil {
		return
	}
	m.DraftRowsDeleted.Add(float64(n))
}
