package handler

import "schedule-planner/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Cart      *CartHandler
	Schedule  *ScheduleHandler
	TimeBlock *TimeBlockHandler
	Course    *CourseHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Cart:      NewCartHandler(svc.Cart),
		Schedule:  NewScheduleHandler(svc.Schedule),
		TimeBlock: NewTimeBlockHandler(svc.TimeBlock),
		Course:    NewCourseHandler(svc.Course),
		Export:    NewExportHandler(svc.Export),
	}
}
