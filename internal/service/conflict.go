package service

import (
	"fmt"

	"schedule-planner/backend/internal/dto"
)

// ── 冲突检测引擎 ──────────────────────────────────────────────
//
// 设计说明：
//   - 时刻以 "HH:MM" 字符串表示，合法格式下字典序即时间先后序，
//     比较时无需解析（与持久层 varchar 列的文本形式一致）。
//   - 携带秒的 "HH:MM:SS" 文本（历史 time 列回读产物）在进入比较前
//     截断归一，避免不同宽度混合比较扭曲边界语义。
//   - 区间采用左闭右开语义：一个条目恰好在另一个开始时结束不算冲突。
//   - 检测是纯函数，无 I/O、无副作用；冲突以数据返回，从不作为 error。
// ─────────────────────────────────────────────────────────────

// normalizeClock 把时刻文本截断为 "HH:MM"
// "10:00" < "10:00:00" 为真，混合宽度会让相邻区间被误判为重叠。
func normalizeClock(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// Interval 一周内的单日时间段
type Interval struct {
	DayOfWeek int    // 1-7，周一为 1
	StartTime string // "HH:MM"
	EndTime   string
}

// Overlaps 判断两个时间段是否重叠
// 满足交换律；不同 DayOfWeek 恒为 false；区间左闭右开。
func (iv Interval) Overlaps(other Interval) bool {
	if iv.DayOfWeek != other.DayOfWeek {
		return false
	}
	return iv.StartTime < other.EndTime && other.StartTime < iv.EndTime
}

// firstCommonDay 返回两个条目共同占用日中编号最小的一个（周一→周日的固定序）
// 固定遍历序保证同一输入下冲突标注的 day 可复现。
func firstCommonDay(a, b []int) (int, bool) {
	inB := make(map[int]bool, len(b))
	for _, d := range b {
		inB[d] = true
	}
	best := 0
	for _, d := range a {
		if inB[d] && (best == 0 || d < best) {
			best = d
		}
	}
	return best, best != 0
}

// itemsConflict 判断两个课表条目是否冲突
// 条目的所有占用日共享同一时间段，因此无论共同日有几个，只需一次区间比较。
func itemsConflict(a, b dto.ScheduleItem) (int, bool) {
	day, ok := firstCommonDay(a.Days, b.Days)
	if !ok {
		return 0, false
	}
	ivA := Interval{DayOfWeek: day, StartTime: normalizeClock(a.StartTime), EndTime: normalizeClock(a.EndTime)}
	ivB := Interval{DayOfWeek: day, StartTime: normalizeClock(b.StartTime), EndTime: normalizeClock(b.EndTime)}
	if !ivA.Overlaps(ivB) {
		return 0, false
	}
	return day, true
}

// newConflict 构造冲突记录，重叠区间取两时间段的交集
func newConflict(a, b dto.ScheduleItem, day int) dto.Conflict {
	start := normalizeClock(a.StartTime)
	if s := normalizeClock(b.StartTime); s > start {
		start = s
	}
	end := normalizeClock(a.EndTime)
	if e := normalizeClock(b.EndTime); e < end {
		end = e
	}
	return dto.Conflict{
		ItemKind:  a.Kind,
		ItemID:    a.ID,
		ItemName:  a.Name,
		OtherKind: b.Kind,
		OtherID:   b.ID,
		OtherName: b.Name,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		Type:      "overlap",
		Severity:  "high",
		Message:   fmt.Sprintf("时间冲突: %s 与 %s", a.Name, b.Name),
	}
}

// DetectConflicts 对候选批次做全量两两冲突检测
// 1. 每个新条目分别与所有既有条目比较；
// 2. 新条目之间按输入序两两比较（i<j），捕获批次内部引入的冲突；
// 3. 每对条目至多产出一条冲突，结果不去重、不截断。
func DetectConflicts(existing, newItems []dto.ScheduleItem) []dto.Conflict {
	var conflicts []dto.Conflict

	for _, newItem := range newItems {
		for _, existingItem := range existing {
			if day, ok := itemsConflict(newItem, existingItem); ok {
				conflicts = append(conflicts, newConflict(newItem, existingItem, day))
			}
		}
	}

	for i := 0; i < len(newItems); i++ {
		for j := i + 1; j < len(newItems); j++ {
			if day, ok := itemsConflict(newItems[i], newItems[j]); ok {
				conflicts = append(conflicts, newConflict(newItems[i], newItems[j], day))
			}
		}
	}

	return conflicts
}

// ── 单日行聚合 ──

// ScheduleRow 持久层的单日行（课程班次或时间块展开后的一行）
type ScheduleRow struct {
	GroupID     string // 稳定条目 ID：课程为 course_id，时间块为 block_group_id
	Kind        string
	Name        string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	Description string
	Instructor  string
	Location    string
	SeatsOpen   int
	Credits     int
	BlockType   string
	Color       string
	Weeks       int
}

// GroupScheduleRows 把平铺的单日行按 GroupID 还原为逻辑课表条目
// 条目顺序取各 GroupID 首次出现的顺序，Days 按行遍历序累加；
// 同组行的名称/时间等字段视为一致，不做二次校验。
func GroupScheduleRows(rows []ScheduleRow) []dto.ScheduleItem {
	items := make([]dto.ScheduleItem, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if i, ok := index[row.GroupID]; ok {
			items[i].Days = append(items[i].Days, row.DayOfWeek)
			continue
		}
		index[row.GroupID] = len(items)
		items = append(items, dto.ScheduleItem{
			ID:          row.GroupID,
			Kind:        row.Kind,
			Name:        row.Name,
			StartTime:   normalizeClock(row.StartTime),
			EndTime:     normalizeClock(row.EndTime),
			Days:        []int{row.DayOfWeek},
			Description: row.Description,
			Instructor:  row.Instructor,
			Location:    row.Location,
			SeatsOpen:   row.SeatsOpen,
			Credits:     row.Credits,
			BlockType:   row.BlockType,
			Color:       row.Color,
			Weeks:       row.Weeks,
		})
	}

	return items
}
