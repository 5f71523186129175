package service

import (
	"context"

	"go.uber.org/zap"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/repository"
)

// ScheduleService 课表查询业务接口
type ScheduleService interface {
	// GetCompleteSchedule 返回学生的完整课表（已选课程 + 个人时间块，单日行粒度）
	GetCompleteSchedule(ctx context.Context, studentID string) (*dto.CompleteScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) GetCompleteSchedule(ctx context.Context, studentID string) (*dto.CompleteScheduleResponse, error) {
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

	resp := &dto.CompleteScheduleResponse{
		Courses:    make([]dto.CourseScheduleRow, 0, len(offerings)),
		TimeBlocks: make([]dto.TimeBlockRow, 0, len(blocks)),
	}
	for _, o := range offerings {
		resp.Courses = append(resp.Courses, dto.CourseScheduleRow{
			OfferingID: o.OfferingID,
			CourseID:   o.CourseID,
			CourseName: o.CourseName,
			DayOfWeek:  o.DayOfWeek,
			StartTime:  o.StartTime,
			EndTime:    o.EndTime,
			Instructor: o.Instructor,
			Location:   o.Location,
			Credits:    o.Credits,
		})
	}
	for _, b := range blocks {
		resp.TimeBlocks = append(resp.TimeBlocks, dto.TimeBlockRow{
			TimeBlockID:  b.TimeBlockID,
			BlockGroupID: b.BlockGroupID,
			Title:        b.Title,
			DayOfWeek:    b.DayOfWeek,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			Weeks:        b.Weeks,
			BlockType:    b.BlockType,
			Color:        b.Color,
			Description:  b.Description,
		})
	}
	return resp, nil
}
