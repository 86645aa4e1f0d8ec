package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/service"
	apperrors "shift-pilot/backend/pkg/errors"
	"shift-pilot/backend/pkg/response"
)

// ShiftHandler 排班草稿模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Generate 生成排班草稿（不落库）
// POST /api/v1/shifts/generate
func (h *ShiftHandler) Generate(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.GenerateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	result, err := h.shiftSvc.Generate(c.Request.Context(), tenantID, &req)
	if err != nil {
		// 生成结果结构无效是上游问题，不是调用方的问题
		if apperrors.IsGenerationSchema(err) {
			response.Fail(c, http.StatusBadGateway, 14102, "生成结果无效，请重试", err)
			return
		}
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// Validate 对调整后的候选班次重新做合规校验
// POST /api/v1/shifts/validate
func (h *ShiftHandler) Validate(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.ValidateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	result, err := h.shiftSvc.Validate(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// SaveDraft 保存排班草稿
// POST /api/v1/shifts/drafts
func (h *ShiftHandler) SaveDraft(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	result, err := h.shiftSvc.SaveDraft(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

// ListDrafts 查询区间内的班次
// GET /api/v1/shifts/drafts?start=&end=
func (h *ShiftHandler) ListDrafts(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	list, err := h.shiftSvc.ListDrafts(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// DeleteDrafts 删除区间内的全部草稿
// DELETE /api/v1/shifts/drafts?start=&end=
func (h *ShiftHandler) DeleteDrafts(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	result, err := h.shiftSvc.DeleteDrafts(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	var schemaErr *apperrors.GenerationSchemaError
	switch {
	case errors.Is(err, apperrors.ErrInvalidPeriod):
		response.Fail(c, http.StatusBadRequest, 14002, "日期区间无效", err)
	case errors.As(err, &schemaErr):
		response.Fail(c, http.StatusBadRequest, 14103, "班次数据无效", err)
	case errors.Is(err, service.ErrEmptyRoster):
		response.Fail(c, http.StatusUnprocessableEntity, 14104, "没有在职员工", err)
	case errors.Is(err, service.ErrGeneratorDisabled):
		response.Fail(c, http.StatusServiceUnavailable, 14105, "生成服务未启用", err)
	case apperrors.IsAggregation(err):
		response.Fail(c, http.StatusInternalServerError, 14101, "读取排班数据失败", err)
	default:
		response.InternalError(c, err)
	}
}
