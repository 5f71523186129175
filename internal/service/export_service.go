package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmptySchedule = errors.New("课表为空，无可导出内容")
	ErrExportBadFormat     = errors.New("不支持的导出格式")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

// 导出格式
const (
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel 格式：单 Sheet 周视图，列为周一 ~ 周日，按天列出当日条目
//   - ICS 格式：每个单日行一个 VEVENT，RRULE 按 weeks 周重复
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSchedule 按 format ("xlsx" | "ics") 导出学生课表
	ExportSchedule(ctx context.Context, studentID, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedule ScheduleService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		schedule: NewScheduleService(repo, logger),
		logger:   logger,
	}
}

func (s *exportService) ExportSchedule(ctx context.Context, studentID, format string) (*bytes.Buffer, string, error) {
	schedule, err := s.schedule.GetCompleteSchedule(ctx, studentID)
	if err != nil {
		return nil, "", err
	}
	if len(schedule.Courses) == 0 && len(schedule.TimeBlocks) == 0 {
		return nil, "", ErrExportEmptySchedule
	}

	switch format {
	case FormatXLSX:
		return s.exportXLSX(schedule)
	case FormatICS:
		return s.exportICS(schedule)
	default:
		return nil, "", ErrExportBadFormat
	}
}

// ═══════════════════════════════════════════════════════════
// exportXLSX — 课表导出为 Excel 周视图
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "我的课表"
//   - 列头：周一 ~ 周日
//   - 每列按当日条目自上而下排列，单元格为 "名称\nHH:MM-HH:MM"

func (s *exportService) exportXLSX(schedule *dto.CompleteScheduleResponse) (*bytes.Buffer, string, error) {
	// 1. 按天收集条目（查询层已按 start_time 排序）
	type entry struct {
		name      string
		startTime string
		endTime   string
		note      string
	}
	byDay := make(map[int][]entry)
	for _, c := range schedule.Courses {
		byDay[c.DayOfWeek] = append(byDay[c.DayOfWeek], entry{
			name:      c.CourseName,
			startTime: c.StartTime,
			endTime:   c.EndTime,
			note:      c.Location,
		})
	}
	for _, b := range schedule.TimeBlocks {
		byDay[b.DayOfWeek] = append(byDay[b.DayOfWeek], entry{
			name:      b.Title,
			startTime: b.StartTime,
			endTime:   b.EndTime,
		})
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "我的课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	dayNames := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

	// 列宽与表头
	for i := range dayNames {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 24)
		f.SetCellValue(sheetName, cell(col, 1), dayNames[i])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", cell(colName(6), 1), headerStyle)

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})

	// 数据：每天一列，条目自上而下
	maxRows := 0
	for dow := 1; dow <= 7; dow++ {
		col, _ := excelize.ColumnNumberToName(dow)
		for i, e := range byDay[dow] {
			text := fmt.Sprintf("%s\n%s-%s", e.name, e.startTime, e.endTime)
			if e.note != "" {
				text += "\n" + e.note
			}
			f.SetCellValue(sheetName, cell(col, 2+i), text)
			f.SetCellStyle(sheetName, cell(col, 2+i), cell(col, 2+i), cellStyle)
		}
		if n := len(byDay[dow]); n > maxRows {
			maxRows = n
		}
	}
	for r := 2; r < 2+maxRows; r++ {
		f.SetRowHeight(sheetName, r, 48)
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "我的课表.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// exportICS — 课表导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个单日行一个 VEVENT：
//   - DTSTART/DTEND 落在本周对应星期（周一为一周起点）
//   - RRULE FREQ=WEEKLY;COUNT=weeks（课程按默认周数）

func (s *exportService) exportICS(schedule *dto.CompleteScheduleResponse) (*bytes.Buffer, string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedule-planner//backend//ZH")

	now := time.Now()
	weekStart := startOfWeek(now)

	addEvent := func(uid, summary, location, description, startTime, endTime string, dayOfWeek, weeks int) error {
		dtStart, err := clockOnDay(weekStart, dayOfWeek, startTime)
		if err != nil {
			return err
		}
		dtEnd, err := clockOnDay(weekStart, dayOfWeek, endTime)
		if err != nil {
			return err
		}

		evt := cal.AddEvent(uid)
		evt.SetDtStampTime(now)
		evt.SetStartAt(dtStart)
		evt.SetEndAt(dtEnd)
		evt.SetSummary(summary)
		if location != "" {
			evt.SetLocation(location)
		}
		if description != "" {
			evt.SetDescription(description)
		}
		evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", weeks))
		return nil
	}

	for _, c := range schedule.Courses {
		uid := fmt.Sprintf("%s@schedule-planner", c.OfferingID)
		if err := addEvent(uid, c.CourseName, c.Location, c.Instructor, c.StartTime, c.EndTime, c.DayOfWeek, defaultRecurrenceWeeks); err != nil {
			s.logger.Error("生成日历事件失败", zap.String("offering_id", c.OfferingID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}
	for _, b := range schedule.TimeBlocks {
		uid := fmt.Sprintf("%s@schedule-planner", b.TimeBlockID)
		if err := addEvent(uid, b.Title, "", b.Description, b.StartTime, b.EndTime, b.DayOfWeek, b.Weeks); err != nil {
			s.logger.Error("生成日历事件失败", zap.String("time_block_id", b.TimeBlockID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "我的课表.ics", nil
}

// ── 辅助函数 ──

// startOfWeek 本周周一零点
func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // 周日
	}
	day := t.AddDate(0, 0, -(wd - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// clockOnDay 把 "HH:MM" 放到周起点后第 dayOfWeek 天
func clockOnDay(weekStart time.Time, dayOfWeek int, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", normalizeClock(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("时刻格式无效: %q", clock)
	}
	day := weekStart.AddDate(0, 0, dayOfWeek-1)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, weekStart.Location()), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
