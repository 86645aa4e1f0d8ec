package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/service"
	"shift-pilot/backend/pkg/response"
)

// AvailabilityHandler 休假申请 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Submit 提交休假申请
// POST /api/v1/availability-requests
func (h *AvailabilityHandler) Submit(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	result, err := h.availabilitySvc.Submit(c.Request.Context(), caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestForOtherUser):
			response.Forbidden(c, 14201, "只能为本人提交休假申请")
		case errors.Is(err, service.ErrStaffIDRequired):
			response.BadRequest(c, 14202, "请指定员工")
		case errors.Is(err, service.ErrInvalidRequestDate):
			response.BadRequest(c, 14203, "申请日期无效")
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 14204, "员工不存在")
		case errors.Is(err, service.ErrStaffInactive):
			response.BadRequest(c, 14205, "员工已停用")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, result)
}
