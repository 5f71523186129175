package service

import (
	"context"

	"go.uber.org/zap"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/repository"
)

// CourseService 课程目录业务接口
type CourseService interface {
	// ListCatalog 返回课程目录，同一班次的多个上课日聚合为一条
	ListCatalog(ctx context.Context) ([]dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) ListCatalog(ctx context.Context) ([]dto.CourseResponse, error) {
	offerings, err := s.repo.Offering.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询课程目录失败", zap.Error(err))
		return nil, err
	}

	// 按 course_id 聚合单日行，保持首次出现的顺序
	index := make(map[string]int)
	courses := make([]dto.CourseResponse, 0)
	for _, o := range offerings {
		if i, ok := index[o.CourseID]; ok {
			courses[i].Days = append(courses[i].Days, o.DayOfWeek)
			continue
		}
		index[o.CourseID] = len(courses)
		courses = append(courses, dto.CourseResponse{
			CourseID:    o.CourseID,
			CourseName:  o.CourseName,
			StartTime:   o.StartTime,
			EndTime:     o.EndTime,
			Days:        []int{o.DayOfWeek},
			Instructor:  o.Instructor,
			Location:    o.Location,
			SeatsOpen:   o.SeatsOpen,
			Credits:     o.Credits,
			Description: o.Description,
		})
	}
	return courses, nil
}
