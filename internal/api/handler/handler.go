package handler

import "shift-pilot/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Shift        *ShiftHandler
	Availability *AvailabilityHandler
	Policy       *PolicyHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shift:        NewShiftHandler(svc.Shift),
		Availability: NewAvailabilityHandler(svc.Availability),
		Policy:       NewPolicyHandler(svc.Policy),
		Export:       NewExportHandler(svc.Export),
	}
}
