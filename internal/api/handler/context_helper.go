package handler

import (
	"github.com/gin-gonic/gin"

	"shift-pilot/backend/internal/service"
	"shift-pilot/backend/pkg/response"
)

// mustGetString 从 Gin 上下文中提取 JWT 中间件注入的字符串。
// 缺失或为空时写入 401 响应，调用方应在 ok=false 时直接 return。
func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTenantID 提取 tenant_id。所有排班数据都按租户隔离。
func MustGetTenantID(c *gin.Context) (string, bool) {
	return mustGetString(c, "tenant_id")
}

// MustGetUserID 提取 user_id
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 提取 role
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetCaller 组装调用方身份；staff_id 仅员工账号携带，可为空
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return service.Caller{}, false
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		UserID:   userID,
		TenantID: tenantID,
		StaffID:  c.GetString("staff_id"),
		Role:     role,
	}, true
}
