package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/service"
	"schedule-planner/backend/pkg/response"
)

// CartHandler 购物车模块 HTTP 处理器
type CartHandler struct {
	cartSvc service.CartService
}

// NewCartHandler 创建 CartHandler
func NewCartHandler(cartSvc service.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// checkConflictsRequest 冲突检查 / 批次提交请求体
type checkConflictsRequest struct {
	Items []dto.CartItemRequest `json:"items" binding:"required"`
}

// CheckConflicts 只检测冲突，不落库
// POST /api/v1/cart/check-conflicts
func (h *CartHandler) CheckConflicts(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req checkConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	conflicts, err := h.cartSvc.CheckConflicts(c.Request.Context(), studentID, req.Items)
	if err != nil {
		h.handleCartError(c, err)
		return
	}

	response.OK(c, gin.H{
		"has_conflicts": len(conflicts) > 0,
		"conflicts":     conflicts,
	})
}

// Process 检测冲突并在零冲突时提交整批
// POST /api/v1/cart/process
//
// 任一冲突 → 409，整批拒绝，零写入；
// 零冲突 → 200，返回逐条目、逐占用日的提交结果。
func (h *CartHandler) Process(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	var req checkConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.cartSvc.ProcessBatch(c.Request.Context(), studentID, req.Items)
	if err != nil {
		h.handleCartError(c, err)
		return
	}

	if !result.Accepted {
		response.Conflict(c, 12001, result.Summary, result)
		return
	}
	response.OK(c, result)
}

// Schedule 已提交的课表条目（聚合后）
// GET /api/v1/cart/schedule
func (h *CartHandler) Schedule(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	items, err := h.cartSvc.GetScheduleItems(c.Request.Context(), studentID)
	if err != nil {
		h.handleCartError(c, err)
		return
	}

	response.OK(c, gin.H{"items": items})
}

// handleCartError 统一处理购物车模块业务错误
func (h *CartHandler) handleCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartInvalidItem):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12002, "候选条目校验失败", err.Error())
	case errors.Is(err, service.ErrCartStudentNotFound):
		response.NotFound(c, 12003, "学生不存在")
	default:
		response.InternalError(c)
	}
}
