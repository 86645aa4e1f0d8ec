package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// Code == 0 表示成功；失败时 Message 为面向用户的通用提示，Details 为内部诊断信息。
// RequestID 取自 RequestID 中间件，便于与服务端日志对照。
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func write(c *gin.Context, httpStatus int, resp Response) {
	resp.RequestID = c.GetString("request_id")
	c.JSON(httpStatus, resp)
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, Response{Message: "success", Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, Response{Message: "success", Data: data})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, Response{Code: code, Message: message})
}

// Fail 通用提示 + 内部错误详情（err 为 nil 时省略详情）
// err 同时记入 c.Errors，由日志中间件输出
func Fail(c *gin.Context, httpStatus int, code int, message string, err error) {
	resp := Response{Code: code, Message: message}
	if err != nil {
		_ = c.Error(err)
		resp.Details = err.Error()
	}
	write(c, httpStatus, resp)
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context, err error) {
	Fail(c, http.StatusInternalServerError, 50000, "服务器内部错误", err)
}
