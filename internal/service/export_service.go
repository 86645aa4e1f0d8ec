package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shift-pilot/backend/internal/dto"
	"shift-pilot/backend/internal/model"
	"shift-pilot/backend/internal/repository"
	"shift-pilot/backend/internal/shift"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoDrafts     = errors.New("该区间内没有已保存的班次")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportExcel 日期 × 员工 的排班表
	ExportExcel(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*bytes.Buffer, string, error)
	// ExportICS 每个班次一个 VEVENT
	ExportICS(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger}
}

func (s *exportService) load(ctx context.Context, tenantID string, req *dto.PeriodRequest) (shift.Period, []model.Shift, error) {
	period, err := shift.NewPeriod(req.Start, req.End, s.loc)
	if err != nil {
		return shift.Period{}, nil, err
	}
	rows, err := s.repo.Shift.ListByPeriod(ctx, tenantID, period.Start, period.End)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return shift.Period{}, nil, err
	}
	if len(rows) == 0 {
		return shift.Period{}, nil, ErrExportNoDrafts
	}
	return period, rows, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExcel
// ═══════════════════════════════════════════════════════════
//
// Sheet "排班表"：行 = 日期，列 = 员工，单元格 = 当日班次时段（运营时区）
// Sheet "明细"：每个班次一行

func (s *exportService) ExportExcel(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*bytes.Buffer, string, error) {
	period, rows, err := s.load(ctx, tenantID, req)
	if err != nil {
		return nil, "", err
	}

	// 1. 员工列（按显示名排序）
	type column struct {
		staffID string
		name    string
	}
	seen := make(map[string]bool)
	var cols []column
	for _, r := range rows {
		if seen[r.StaffID] {
			continue
		}
		seen[r.StaffID] = true
		cols = append(cols, column{staffID: r.StaffID, name: staffName(&r)})
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].name != cols[j].name {
			return cols[i].name < cols[j].name
		}
		return cols[i].staffID < cols[j].staffID
	})
	colIndex := make(map[string]int, len(cols))
	for i, c := range cols {
		colIndex[c.staffID] = i
	}

	// 2. "日期|员工" → 时段文本
	cells := make(map[string]string)
	for _, r := range rows {
		key := shift.DateOf(r.StartAt, s.loc) + "|" + r.StaffID
		text := s.span(r.StartAt, r.EndAt)
		if r.Role != nil && *r.Role != "" {
			text += " (" + *r.Role + ")"
		}
		if prev, ok := cells[key]; ok {
			text = prev + "\n" + text
		}
		cells[key] = text
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("排班草稿 %s ~ %s", period.StartDate(), period.End.AddDate(0, 0, -1).Format(shift.DateLayout)))
	f.MergeCell(sheetName, "A1", cell(colName(len(cols)+1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetCellValue(sheetName, "A2", "日期")
	for i, c := range cols {
		col := colName(i + 2)
		f.SetColWidth(sheetName, col, col, 20)
		f.SetCellValue(sheetName, cell(col, 2), c.name)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(cols)+1), 2), headerStyle)

	// 数据行
	row := 3
	for _, day := range period.Days() {
		f.SetCellValue(sheetName, cell("A", row), day)
		for _, c := range cols {
			text := "-"
			if v, ok := cells[day+"|"+c.staffID]; ok {
				text = v
			}
			f.SetCellValue(sheetName, cell(colName(colIndex[c.staffID]+2), row), text)
		}
		row++
	}
	if row > 3 {
		f.SetCellStyle(sheetName, "B3", cell(colName(len(cols)+1), row-1), wrapStyle)
	}

	// 明细
	detail := "明细"
	f.NewSheet(detail)
	for i, h := range []string{"员工", "日期", "开始", "结束", "时长(h)", "岗位", "状态"} {
		f.SetCellValue(detail, cell(colName(i+1), 1), h)
	}
	f.SetCellStyle(detail, "A1", "G1", headerStyle)
	for i, r := range rows {
		line := i + 2
		role := ""
		if r.Role != nil {
			role = *r.Role
		}
		f.SetCellValue(detail, cell("A", line), staffName(&r))
		f.SetCellValue(detail, cell("B", line), shift.DateOf(r.StartAt, s.loc))
		f.SetCellValue(detail, cell("C", line), r.StartAt.In(s.loc).Format("2006-01-02 15:04"))
		f.SetCellValue(detail, cell("D", line), r.EndAt.In(s.loc).Format("2006-01-02 15:04"))
		f.SetCellValue(detail, cell("E", line), r.EndAt.Sub(r.StartAt).Hours())
		f.SetCellValue(detail, cell("F", line), role)
		f.SetCellValue(detail, cell("G", line), r.Status)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("shifts_%s_%s.xlsx", req.Start, req.End)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, tenantID string, req *dto.PeriodRequest) (*bytes.Buffer, string, error) {
	_, rows, err := s.load(ctx, tenantID, req)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shift-pilot//drafts//ZH")
	cal.SetXWRCalName(fmt.Sprintf("排班草稿 %s ~ %s", req.Start, req.End))
	cal.SetXWRTimezone(s.loc.String())

	stamp := time.Now().UTC()
	for _, r := range rows {
		summary := staffName(&r)
		if r.Role != nil && *r.Role != "" {
			summary += " · " + *r.Role
		}

		event := cal.AddEvent(r.ShiftID + "@shift-pilot")
		event.SetDtStampTime(stamp)
		event.SetStartAt(r.StartAt.UTC())
		event.SetEndAt(r.EndAt.UTC())
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("status=%s staff_id=%s", r.Status, r.StaffID))
		if r.Status == model.ShiftStatusDraft {
			event.SetStatus(ics.ObjectStatusTentative)
		} else {
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("shifts_%s_%s.ics", req.Start, req.End)
	return buf, filename, nil
}

// span 运营时区下的时段文本；跨日时标出结束日期
func (s *exportService) span(start, end time.Time) string {
	ls, le := start.In(s.loc), end.In(s.loc)
	if ls.Format(shift.DateLayout) == le.Format(shift.DateLayout) {
		return ls.Format("15:04") + "-" + le.Format("15:04")
	}
	return ls.Format("15:04") + "-" + le.Format("01/02 15:04")
}

func staffName(r *model.Shift) string {
	if r.Staff != nil && r.Staff.DisplayName != "" {
		return r.Staff.DisplayName
	}
	return r.StaffID
}

// colName 1 → "A"
func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
