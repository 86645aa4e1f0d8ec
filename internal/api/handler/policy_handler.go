package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shift-pilot/backend/internal/service"
	"shift-pilot/backend/pkg/response"
)

// PolicyHandler 员工策略 HTTP 处理器
type PolicyHandler struct {
	policySvc service.PolicyService
}

// NewPolicyHandler 创建 PolicyHandler
func NewPolicyHandler(policySvc service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policySvc: policySvc}
}

// GetStaffPolicy 查看员工生效策略
// GET /api/v1/staff/:id/policy
func (h *PolicyHandler) GetStaffPolicy(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	staffID := c.Param("id")
	if _, err := uuid.Parse(staffID); err != nil {
		response.BadRequest(c, 14001, "员工ID格式无效")
		return
	}

	result, err := h.policySvc.GetStaffPolicy(c.Request.Context(), tenantID, staffID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 14204, "员工不存在")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, result)
}
