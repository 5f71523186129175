package service

import (
	"go.uber.org/zap"

	"schedule-planner/backend/config"
	"schedule-planner/backend/internal/repository"
	"schedule-planner/backend/pkg/jwt"
	"schedule-planner/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Cart      CartService
	Schedule  ScheduleService
	TimeBlock TimeBlockService
	Course    CourseService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Cart:      NewCartService(cfg, repo, logger),
		Schedule:  NewScheduleService(repo, logger),
		TimeBlock: NewTimeBlockService(cfg, repo, logger),
		Course:    NewCourseService(repo, logger),
		Export:    NewExportService(repo, logger),
	}
}
