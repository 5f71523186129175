package dto

import "fmt"

// ── 时间块 CRUD ──

// CreateTimeBlockRequest 新建单日时间块请求
// 多日时间块走购物车批量提交；这里的 CRUD 面向单日微调场景。
type CreateTimeBlockRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	DayOfWeek   int    `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Weeks       int    `json:"weeks" binding:"omitempty,min=1,max=52"`
	BlockType   string `json:"block_type" binding:"omitempty,oneof=club job break personal other"`
	Color       string `json:"color" binding:"omitempty,max=10"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// Validate 校验时刻格式与先后关系
func (r *CreateTimeBlockRequest) Validate() error {
	if err := validateClockTime(r.StartTime); err != nil {
		return fmt.Errorf("start_time 无效: %w", err)
	}
	if err := validateClockTime(r.EndTime); err != nil {
		return fmt.Errorf("end_time 无效: %w", err)
	}
	if r.StartTime >= r.EndTime {
		return fmt.Errorf("时间段无效: start_time(%s) 必须早于 end_time(%s)", r.StartTime, r.EndTime)
	}
	return nil
}

// UpdateTimeBlockRequest 更新时间块请求（字段均可选）
type UpdateTimeBlockRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=1,max=7"`
	StartTime   *string `json:"start_time" binding:"omitempty"`
	EndTime     *string `json:"end_time" binding:"omitempty"`
	Weeks       *int    `json:"weeks" binding:"omitempty,min=1,max=52"`
	BlockType   *string `json:"block_type" binding:"omitempty,oneof=club job break personal other"`
	Color       *string `json:"color" binding:"omitempty,max=10"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}
