package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"schedule-planner/backend/internal/service"
	"schedule-planner/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// 导出内容类型
var exportContentTypes = map[string]string{
	service.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.FormatICS:  "text/calendar; charset=utf-8",
}

// ExportSchedule 导出课表
// GET /api/v1/export/schedule?format=xlsx|ics
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", service.FormatXLSX)

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), studentID, format)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	contentType := exportContentTypes[format]
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportBadFormat):
		response.BadRequest(c, 16001, "不支持的导出格式，仅支持 xlsx / ics")
	case errors.Is(err, service.ErrExportEmptySchedule):
		response.BadRequest(c, 16002, "课表为空，无可导出内容")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
