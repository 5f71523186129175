package dto

import (
	"fmt"
	"time"
)

// ── 条目类型 ──

const (
	ItemKindCourse    = "course"
	ItemKindTimeBlock = "timeblock"
)

// ── 提交批次 ──

// CartItemRequest 购物车候选条目
// 一个条目占用 Days 中每个星期的同一时间段（不支持按天差异化时间）。
type CartItemRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=course timeblock"`
	Name        string `json:"name" binding:"required,max=100"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Days        []int  `json:"days" binding:"required,min=1,dive,min=1,max=7"`
	BlockType   string `json:"block_type" binding:"omitempty,oneof=club job break personal other"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// Validate 校验业务规则：时间格式、start < end、day 集合非空且无重复
// binding 标签覆盖不了的部分在这里补齐；任何一条失败都会让整个批次提前终止。
func (r *CartItemRequest) Validate() error {
	if r.Kind != ItemKindCourse && r.Kind != ItemKindTimeBlock {
		return fmt.Errorf("未知的条目类型: %q", r.Kind)
	}
	if len(r.Days) == 0 {
		return fmt.Errorf("days 不能为空")
	}
	if err := validateClockTime(r.StartTime); err != nil {
		return fmt.Errorf("start_time 无效: %w", err)
	}
	if err := validateClockTime(r.EndTime); err != nil {
		return fmt.Errorf("end_time 无效: %w", err)
	}
	if r.StartTime >= r.EndTime {
		return fmt.Errorf("时间段无效: start_time(%s) 必须早于 end_time(%s)", r.StartTime, r.EndTime)
	}
	seen := make(map[int]bool, len(r.Days))
	for _, d := range r.Days {
		if d < 1 || d > 7 {
			return fmt.Errorf("day_of_week 无效: %d", d)
		}
		if seen[d] {
			return fmt.Errorf("days 中存在重复项: %d", d)
		}
		seen[d] = true
	}
	return nil
}

// ToScheduleItem 转换为检测引擎使用的课表条目（候选条目尚无持久化 ID）
func (r *CartItemRequest) ToScheduleItem() ScheduleItem {
	days := make([]int, len(r.Days))
	copy(days, r.Days)
	return ScheduleItem{
		Kind:        r.Kind,
		Name:        r.Name,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Days:        days,
		BlockType:   r.BlockType,
		Description: r.Description,
	}
}

// validateClockTime 校验 "HH:MM" 时刻格式
// 合法格式保证字典序比较与时间先后一致，检测引擎据此直接比较字符串。
func validateClockTime(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("时刻必须为 HH:MM 格式，实际为 %q", s)
	}
	return nil
}

// ── 课表条目 ──

// ScheduleItem 课表中的一个逻辑条目（课程班次或个人时间块）
// 持久层按 (条目, 占用日) 存储多行，读取时按稳定 ID 聚合还原。
type ScheduleItem struct {
	ID          string `json:"id,omitempty"`
	Kind        string `json:"kind"` // course | timeblock
	Name        string `json:"name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Days        []int  `json:"days"`
	Description string `json:"description,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	Location    string `json:"location,omitempty"`
	SeatsOpen   int    `json:"seats_open,omitempty"`
	Credits     int    `json:"credits,omitempty"`
	BlockType   string `json:"block_type,omitempty"`
	Color       string `json:"color,omitempty"`
	Weeks       int    `json:"weeks,omitempty"`
}

// ── 冲突 ──

// Conflict 一对条目之间的时间冲突
// 仅在单次检测调用内存在，从不持久化。
type Conflict struct {
	ItemKind  string `json:"item_kind"`
	ItemID    string `json:"item_id,omitempty"`
	ItemName  string `json:"item_name"`
	OtherKind string `json:"other_kind"`
	OtherID   string `json:"other_id,omitempty"`
	OtherName string `json:"other_name"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"` // 重叠区间
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`     // 目前恒为 overlap
	Severity  string `json:"severity"` // 目前恒为 high
	Message   string `json:"message"`
}

// ── 提交结果 ──

const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailure = "failure"
)

// DayResult 单个占用日的落库结果
type DayResult struct {
	Status string `json:"status"` // success | failure
	Reason string `json:"reason,omitempty"`
}

// CommitOutcome 单个条目的提交汇总
// Overall: 所有日成功为 success，全部失败为 failure，混合为 partial。
// partial 意味着部分日已落库且不会回滚，需要人工对账。
type CommitOutcome struct {
	ItemID   string            `json:"item_id,omitempty"`
	ItemName string            `json:"item_name"`
	Kind     string            `json:"kind"`
	PerDay   map[int]DayResult `json:"per_day"`
	Overall  string            `json:"overall"`
}

// BatchResult 整批提交的处理结果
// Accepted=false 时 Conflicts 非空且 Outcomes 为空（批次整体拒绝，零写入）；
// Accepted=true 时 Conflicts 为空，Outcomes 覆盖每个条目。
type BatchResult struct {
	Accepted  bool            `json:"accepted"`
	Conflicts []Conflict      `json:"conflicts,omitempty"`
	Outcomes  []CommitOutcome `json:"outcomes,omitempty"`
	Summary   string          `json:"summary"`
}
