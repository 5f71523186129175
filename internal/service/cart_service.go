package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-planner/backend/config"
	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/model"
	"schedule-planner/backend/internal/repository"
)

// ── 购物车模块业务错误 ──

var (
	ErrCartStudentNotFound = errors.New("学生不存在")
	ErrCartInvalidItem     = errors.New("候选条目校验失败")
)

// defaultRecurrenceWeeks 未指定时的默认重复周数
// 固定常量而非调用方参数，与既有前端约定保持一致。
const defaultRecurrenceWeeks = 15

// ── CartService 接口 ──────────────────────────────────────────
//
// 设计说明：
//   - 冲突检查与提交采用两级策略：检查关卡是整批一票否决
//     （任一冲突即拒绝全部，零写入）；通过关卡后的提交阶段则逐条目、
//     逐占用日独立落库，单日失败不影响其余（无回滚）。
//     这是两种刻意不同的策略，不要"统一"掉——改动会直接改变用户可见行为。
//   - 提交前不做二次冲突检查：前置条件是调用方（ProcessBatch 自身）
//     已确认零冲突。
//   - 同一学生并发提交仍可能双双通过检测后先后落库；重复选课检查
//     紧贴写入执行以收窄窗口，彻底兜底依赖存储层的唯一索引。
// ─────────────────────────────────────────────────────────────

// CartService 购物车批次处理业务接口
type CartService interface {
	// CheckConflicts 只做冲突检测，不落库
	CheckConflicts(ctx context.Context, studentID string, items []dto.CartItemRequest) ([]dto.Conflict, error)
	// ProcessBatch 检测冲突并在零冲突时提交整批
	ProcessBatch(ctx context.Context, studentID string, items []dto.CartItemRequest) (*dto.BatchResult, error)
	// GetScheduleItems 获取学生已提交的课表条目（单日行聚合后）
	GetScheduleItems(ctx context.Context, studentID string) ([]dto.ScheduleItem, error)
}

type cartService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCartService 创建 CartService 实例
func NewCartService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CartService {
	return &cartService{cfg: cfg, repo: repo, logger: logger}
}

func (s *cartService) CheckConflicts(ctx context.Context, studentID string, items []dto.CartItemRequest) ([]dto.Conflict, error) {
	candidates, err := s.validateBatch(items)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadExistingItems(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return DetectConflicts(existing, candidates), nil
}

// ════════════════════════════════════════════════════════════
// ProcessBatch — 批次处理状态机
// ════════════════════════════════════════════════════════════
//
// Received → Detecting → {Rejected(conflicts) | Committing → Completed(outcomes)}
//
// 流程：
//   1. 校验：任一条目非法立即整批终止（快速失败，零写入）
//   2. 检测：与既有课表 + 批次内部两两比对
//   3. 任一冲突 → Rejected，跳过提交
//   4. 零冲突 → 逐条目独立提交，聚合逐日结果

func (s *cartService) ProcessBatch(ctx context.Context, studentID string, items []dto.CartItemRequest) (*dto.BatchResult, error) {
	candidates, err := s.validateBatch(items)
	if err != nil {
		return nil, err
	}

	// 学生存在性检查（候选 timeblock 落库依赖外键）
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	existing, err := s.loadExistingItems(ctx, studentID)
	if err != nil {
		return nil, err
	}

	conflicts := DetectConflicts(existing, candidates)
	if len(conflicts) > 0 {
		return &dto.BatchResult{
			Accepted:  false,
			Conflicts: conflicts,
			Summary:   fmt.Sprintf("检测到 %d 处时间冲突，批次已整体拒绝", len(conflicts)),
		}, nil
	}

	outcomes := make([]dto.CommitOutcome, 0, len(items))
	succeeded := 0
	for _, item := range items {
		outcome := s.commitItem(ctx, studentID, &item)
		if outcome.Overall == dto.OutcomeSuccess {
			succeeded++
		}
		outcomes = append(outcomes, outcome)
	}

	summary := fmt.Sprintf("全部 %d 个条目已加入课表", succeeded)
	if succeeded != len(items) {
		summary = fmt.Sprintf("成功 %d 个条目，%d 个条目存在失败", succeeded, len(items)-succeeded)
	}

	return &dto.BatchResult{
		Accepted: true,
		Outcomes: outcomes,
		Summary:  summary,
	}, nil
}

func (s *cartService) GetScheduleItems(ctx context.Context, studentID string) ([]dto.ScheduleItem, error) {
	return s.loadExistingItems(ctx, studentID)
}

// validateBatch 逐条校验候选条目并转换为检测用的课表条目
// 任一条目失败即整体返回错误（ValidationError 快速失败语义）。
func (s *cartService) validateBatch(items []dto.CartItemRequest) ([]dto.ScheduleItem, error) {
	candidates := make([]dto.ScheduleItem, 0, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: 第 %d 项 %q: %v", ErrCartInvalidItem, i+1, items[i].Name, err)
		}
		candidates = append(candidates, items[i].ToScheduleItem())
	}
	return candidates, nil
}

// loadExistingItems 读取学生已提交的课表条目
// 选课与时间块都以 (条目, 占用日) 单行存储，读取后按稳定 ID 聚合还原。
func (s *cartService) loadExistingItems(ctx context.Context, studentID string) ([]dto.ScheduleItem, error) {
	offerings, err := s.repo.Offering.ListEnrolledRows(ctx, studentID)
	if err != nil {
		s.logger.Error("查询已选课程失败", zap.Error(err))
		return nil, err
	}
	blocks, err := s.repo.TimeBlock.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询时间块失败", zap.Error(err))
		return nil, err
	}

	rows := make([]ScheduleRow, 0, len(offerings)+len(blocks))
	for _, o := range offerings {
		rows = append(rows, ScheduleRow{
			GroupID:     o.CourseID,
			Kind:        dto.ItemKindCourse,
			Name:        o.CourseName,
			DayOfWeek:   o.DayOfWeek,
			StartTime:   o.StartTime,
			EndTime:     o.EndTime,
			Description: o.Description,
			Instructor:  o.Instructor,
			Location:    o.Location,
			SeatsOpen:   o.SeatsOpen,
			Credits:     o.Credits,
		})
	}
	for _, b := range blocks {
		rows = append(rows, ScheduleRow{
			GroupID:     b.BlockGroupID,
			Kind:        dto.ItemKindTimeBlock,
			Name:        b.Title,
			DayOfWeek:   b.DayOfWeek,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Description: b.Description,
			BlockType:   b.BlockType,
			Color:       b.Color,
			Weeks:       b.Weeks,
		})
	}

	return GroupScheduleRows(rows), nil
}

// ════════════════════════════════════════════════════════════
// 提交执行 — 逐占用日展开落库
// ════════════════════════════════════════════════════════════

// commitItem 提交单个条目：每个占用日一次独立落库，互不影响
func (s *cartService) commitItem(ctx context.Context, studentID string, item *dto.CartItemRequest) dto.CommitOutcome {
	outcome := dto.CommitOutcome{
		ItemName: item.Name,
		Kind:     item.Kind,
		PerDay:   make(map[int]dto.DayResult, len(item.Days)),
	}

	switch item.Kind {
	case dto.ItemKindCourse:
		s.commitCourse(ctx, studentID, item, &outcome)
	case dto.ItemKindTimeBlock:
		s.commitTimeBlock(ctx, studentID, item, &outcome)
	}

	outcome.Overall = overallOf(outcome.PerDay)
	return outcome
}

// commitCourse 课程条目：逐日解析班次并登记选课
// 某日解析不到班次只影响当日，不中断该条目的其余占用日。
func (s *cartService) commitCourse(ctx context.Context, studentID string, item *dto.CartItemRequest, outcome *dto.CommitOutcome) {
	for _, day := range item.Days {
		offeringID, err := s.repo.Offering.FindID(ctx, item.Name, day, item.StartTime, item.EndTime)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "未找到对应的课程班次"}
			} else {
				s.logger.Error("解析课程班次失败",
					zap.String("course", item.Name), zap.Int("day", day), zap.Error(err))
				outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "查询课程班次失败"}
			}
			continue
		}

		// 重复选课检查紧贴写入执行，收窄并发窗口
		enrolled, err := s.repo.Enrollment.IsEnrolled(ctx, studentID, offeringID)
		if err != nil {
			s.logger.Error("查询选课记录失败", zap.Error(err))
			outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "查询选课记录失败"}
			continue
		}
		if enrolled {
			outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "已选该课程，重复选课无效"}
			continue
		}

		err = s.repo.Enrollment.Enroll(ctx, &model.Enrollment{
			StudentID:  studentID,
			OfferingID: offeringID,
			Enrolled:   true,
		})
		if err != nil {
			s.logger.Error("写入选课记录失败", zap.Error(err))
			outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "写入选课记录失败"}
			continue
		}
		outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeSuccess}
	}
}

// commitTimeBlock 时间块条目：每个占用日独立插入一行，组内共享 BlockGroupID
// 不做跨日去重（同名同时段重复提交由冲突检测关卡拦截）。
func (s *cartService) commitTimeBlock(ctx context.Context, studentID string, item *dto.CartItemRequest, outcome *dto.CommitOutcome) {
	groupID := uuid.New().String()
	outcome.ItemID = groupID

	blockType := item.BlockType
	if blockType == "" {
		blockType = "other"
	}

	for _, day := range item.Days {
		err := s.repo.TimeBlock.CreateDay(ctx, &model.TimeBlock{
			BlockGroupID: groupID,
			StudentID:    studentID,
			Title:        item.Name,
			DayOfWeek:    day,
			StartTime:    item.StartTime,
			EndTime:      item.EndTime,
			Weeks:        defaultRecurrenceWeeks,
			BlockType:    blockType,
			Color:        s.cfg.Planner.ColorFor(blockType),
			Description:  item.Description,
		})
		if err != nil {
			s.logger.Error("写入时间块失败",
				zap.String("title", item.Name), zap.Int("day", day), zap.Error(err))
			outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeFailure, Reason: "写入时间块失败"}
			continue
		}
		outcome.PerDay[day] = dto.DayResult{Status: dto.OutcomeSuccess}
	}
}

// overallOf 汇总逐日结果：全成功 success，全失败 failure，混合 partial
// 空集合（一天都没提交）不构成任何成功，按 failure 处理。
func overallOf(perDay map[int]dto.DayResult) string {
	if len(perDay) == 0 {
		return dto.OutcomeFailure
	}
	succeeded, failed := 0, 0
	for _, r := range perDay {
		if r.Status == dto.OutcomeSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	switch {
	case failed == 0:
		return dto.OutcomeSuccess
	case succeeded == 0:
		return dto.OutcomeFailure
	default:
		return dto.OutcomePartial
	}
}
