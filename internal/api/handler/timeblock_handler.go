package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/service"
	"schedule-planner/backend/pkg/response"
)

// TimeBlockHandler 时间块模块 HTTP 处理器
type TimeBlockHandler struct {
	blockSvc service.TimeBlockService
}

// NewTimeBlockHandler 创建 TimeBlockHandler
func NewTimeBlockHandler(blockSvc service.TimeBlockService) *TimeBlockHandler {
	return &TimeBlockHandler{blockSvc: blockSvc}
}

// List 当前学生全部时间块单日行
// GET /api/v1/time-blocks
func (h *TimeBlockHandler) List(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	rows, err := h.blockSvc.List(c.Request.Context(), studentID)
	if err != nil {
		h.handleTimeBlockError(c, err)
		return
	}

	response.OK(c, gin.H{"time_blocks": rows})
}

// Create 新建单日时间块
// POST /api/v1/time-blocks
func (h *TimeBlockHandler) Create(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req dto.CreateTimeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.Create(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleTimeBlockError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新时间块
// PUT /api/v1/time-blocks/:id
func (h *TimeBlockHandler) Update(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	blockID := c.Param("id")
	if blockID == "" {
		response.BadRequest(c, 10001, "id 不能为空")
		return
	}

	var req dto.UpdateTimeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.blockSvc.Update(c.Request.Context(), studentID, blockID, &req)
	if err != nil {
		h.handleTimeBlockError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除时间块
// DELETE /api/v1/time-blocks/:id
func (h *TimeBlockHandler) Delete(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	blockID := c.Param("id")
	if blockID == "" {
		response.BadRequest(c, 10001, "id 不能为空")
		return
	}

	if err := h.blockSvc.Delete(c.Request.Context(), studentID, blockID); err != nil {
		h.handleTimeBlockError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimeBlockError 统一处理时间块模块业务错误
func (h *TimeBlockHandler) handleTimeBlockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeBlockNotFound):
		response.NotFound(c, 14001, "时间块不存在")
	case errors.Is(err, service.ErrTimeBlockNotOwner):
		response.Forbidden(c, 14002, "无权操作他人的时间块")
	case errors.Is(err, service.ErrTimeBlockInvalid):
		response.BadRequest(c, 14003, err.Error())
	default:
		response.InternalError(c)
	}
}
