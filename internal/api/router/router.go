package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shift-pilot/backend/config"
	"shift-pilot/backend/internal/api/handler"
	mw "shift-pilot/backend/internal/api/middleware"
	"shift-pilot/backend/pkg/jwt"
	"shift-pilot/backend/pkg/metrics"
	"shift-pilot/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(mw.Logger(logger))
	r.Use(mw.SecurityHeaders())
	r.Use(mw.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(mw.BodyLimit(int64(cfg.Server.BodyLimitMB) << 20))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(mw.JWTAuth(jwtMgr, rdb))
	{
		admin := mw.RoleAuth(mw.RoleAdmin)
		anyone := mw.RoleAuth(mw.RoleAdmin, mw.RoleStaff)

		// 排班草稿
		shifts := v1.Group("/shifts")
		{
			shifts.POST("/generate", admin,
				mw.RateLimit(rdb, cfg.RateLimit.GenerateLimit, cfg.RateLimit.GenerateWindow),
				h.Shift.Generate)
			shifts.POST("/validate", admin, h.Shift.Validate)
			shifts.POST("/drafts", admin, h.Shift.SaveDraft)
			shifts.GET("/drafts", anyone, h.Shift.ListDrafts)
			shifts.DELETE("/drafts", admin, h.Shift.DeleteDrafts)
			shifts.GET("/drafts/export.xlsx", admin, h.Export.ExportExcel)
			shifts.GET("/drafts/export.ics", admin, h.Export.ExportICS)
		}

		// 休假申请（员工只能为本人提交，Service 层鉴权）
		v1.POST("/availability-requests", anyone, h.Availability.Submit)

		// 员工策略
		v1.GET("/staff/:id/policy", admin, h.Policy.GetStaffPolicy)
	}

	return r
}
