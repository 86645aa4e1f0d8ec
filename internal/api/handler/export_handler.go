package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/service"
	apperrors "shift-pilot/backend/pkg/errors"
	"shift-pilot/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出排班表
// GET /api/v1/shifts/drafts/export.xlsx?start=&end=
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	var req dto.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	h.attachment(c, buf, filename, contentTypeXLSX)
}

// ExportICS 导出日历
// GET /api/v1/shifts/drafts/export.ics?start=&end=
func (h *ExportHandler) ExportICS(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	var req dto.PeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, 14001, "参数校验失败", err)
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	h.attachment(c, buf, filename, contentTypeICS)
}

func (h *ExportHandler) attachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPeriod):
		response.Fail(c, http.StatusBadRequest, 14002, "日期区间无效", err)
	case errors.Is(err, service.ErrExportNoDrafts):
		response.NotFound(c, 14301, "该区间内没有班次")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Fail(c, http.StatusInternalServerError, 14302, "生成导出文件失败", err)
	default:
		response.InternalError(c, err)
	}
}
