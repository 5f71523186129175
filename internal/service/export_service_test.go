package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"schedule-planner/backend/internal/model"
)

func setupTestExportService() (ExportService, *testRepos) {
	repo, mocks := newTestRepos()
	svc := NewExportService(repo, zap.NewNop())
	return svc, mocks
}

func seedExportSchedule(mocks *testRepos) {
	mocks.offering.addCourse("CS 101", []int{1, 3, 5}, "09:00", "10:30")
	for _, o := range mocks.offering.offerings {
		mocks.offering.enrolled["stu-1"] = append(mocks.offering.enrolled["stu-1"], o.OfferingID)
	}
	mocks.timeBlock.blocks = append(mocks.timeBlock.blocks, model.TimeBlock{
		TimeBlockID: "tb-1", BlockGroupID: "bg-1", StudentID: "stu-1",
		Title: "健身", DayOfWeek: 2, StartTime: "18:00", EndTime: "19:30",
		Weeks: 10, BlockType: "personal",
	})
}

func TestExportSchedule_XLSX(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedExportSchedule(mocks)

	buf, filename, err := svc.ExportSchedule(context.Background(), "stu-1", FormatXLSX)
	if err != nil {
		t.Fatalf("导出 Excel 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际 %s", filename)
	}
	// xlsx 本质是 zip，检查魔数
	if b := buf.Bytes(); len(b) < 2 || b[0] != 'P' || b[1] != 'K' {
		t.Error("导出内容不是合法的 xlsx (zip) 文件")
	}
}

func TestExportSchedule_ICS(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedExportSchedule(mocks)

	buf, filename, err := svc.ExportSchedule(context.Background(), "stu-1", FormatICS)
	if err != nil {
		t.Fatalf("导出 ICS 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾，实际 %s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") {
		t.Error("ICS 内容应包含 VCALENDAR")
	}
	// 3 个课程单日行 + 1 个时间块 = 4 个事件
	if n := strings.Count(content, "BEGIN:VEVENT"); n != 4 {
		t.Errorf("期望 4 个 VEVENT，实际 %d 个", n)
	}
	if !strings.Contains(content, "FREQ=WEEKLY;COUNT=15") {
		t.Error("课程事件应带 15 周的 RRULE")
	}
	if !strings.Contains(content, "FREQ=WEEKLY;COUNT=10") {
		t.Error("时间块事件应按自身周数生成 RRULE")
	}
	if !strings.Contains(content, "SUMMARY:CS 101") {
		t.Error("事件应带课程名摘要")
	}
}

func TestExportSchedule_Empty(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportSchedule(context.Background(), "stu-1", FormatXLSX)
	if !errors.Is(err, ErrExportEmptySchedule) {
		t.Errorf("空课表应返回 ErrExportEmptySchedule，实际: %v", err)
	}
}

func TestExportSchedule_BadFormat(t *testing.T) {
	svc, mocks := setupTestExportService()
	seedExportSchedule(mocks)

	_, _, err := svc.ExportSchedule(context.Background(), "stu-1", "pdf")
	if !errors.Is(err, ErrExportBadFormat) {
		t.Errorf("不支持的格式应返回 ErrExportBadFormat，实际: %v", err)
	}
}
