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

// ── 时间块模块业务错误 ──

var (
	ErrTimeBlockNotFound = errors.New("时间块不存在")
	ErrTimeBlockNotOwner = errors.New("无权操作他人的时间块")
	ErrTimeBlockInvalid  = errors.New("时间块参数无效")
)

// TimeBlockService 时间块 CRUD 业务接口
// 多日时间块经购物车批量提交产生；这里提供提交后的单日行微调能力。
type TimeBlockService interface {
	List(ctx context.Context, studentID string) ([]dto.TimeBlockRow, error)
	Create(ctx context.Context, studentID string, req *dto.CreateTimeBlockRequest) (*dto.TimeBlockRow, error)
	Update(ctx context.Context, studentID, blockID string, req *dto.UpdateTimeBlockRequest) (*dto.TimeBlockRow, error)
	Delete(ctx context.Context, studentID, blockID string) error
}

type timeBlockService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeBlockService 创建 TimeBlockService 实例
func NewTimeBlockService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TimeBlockService {
	return &timeBlockService{cfg: cfg, repo: repo, logger: logger}
}

func (s *timeBlockService) List(ctx context.Context, studentID string) ([]dto.TimeBlockRow, error) {
	blocks, err := s.repo.TimeBlock.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询时间块列表失败", zap.Error(err))
		return nil, err
	}

	rows := make([]dto.TimeBlockRow, 0, len(blocks))
	for i := range blocks {
		rows = append(rows, *toTimeBlockRow(&blocks[i]))
	}
	return rows, nil
}

func (s *timeBlockService) Create(ctx context.Context, studentID string, req *dto.CreateTimeBlockRequest) (*dto.TimeBlockRow, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeBlockInvalid, err)
	}

	blockType := req.BlockType
	if blockType == "" {
		blockType = "other"
	}
	weeks := req.Weeks
	if weeks == 0 {
		weeks = defaultRecurrenceWeeks
	}
	color := req.Color
	if color == "" {
		color = s.cfg.Planner.ColorFor(blockType)
	}

	block := &model.TimeBlock{
		BlockGroupID: uuid.New().String(),
		StudentID:    studentID,
		Title:        req.Title,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Weeks:        weeks,
		BlockType:    blockType,
		Color:        color,
		Description:  req.Description,
	}
	if err := s.repo.TimeBlock.CreateDay(ctx, block); err != nil {
		s.logger.Error("创建时间块失败", zap.Error(err))
		return nil, err
	}
	return toTimeBlockRow(block), nil
}

func (s *timeBlockService) Update(ctx context.Context, studentID, blockID string, req *dto.UpdateTimeBlockRequest) (*dto.TimeBlockRow, error) {
	block, err := s.loadOwned(ctx, studentID, blockID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		block.Title = *req.Title
	}
	if req.DayOfWeek != nil {
		block.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		block.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		block.EndTime = *req.EndTime
	}
	if req.Weeks != nil {
		block.Weeks = *req.Weeks
	}
	if req.BlockType != nil {
		block.BlockType = *req.BlockType
	}
	if req.Color != nil {
		block.Color = *req.Color
	}
	if req.Description != nil {
		block.Description = *req.Description
	}

	// 更新后再整体校验时刻先后关系
	check := dto.CreateTimeBlockRequest{StartTime: block.StartTime, EndTime: block.EndTime}
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeBlockInvalid, err)
	}

	if err := s.repo.TimeBlock.Update(ctx, block); err != nil {
		s.logger.Error("更新时间块失败", zap.Error(err))
		return nil, err
	}
	return toTimeBlockRow(block), nil
}

func (s *timeBlockService) Delete(ctx context.Context, studentID, blockID string) error {
	if _, err := s.loadOwned(ctx, studentID, blockID); err != nil {
		return err
	}
	if err := s.repo.TimeBlock.Delete(ctx, blockID); err != nil {
		s.logger.Error("删除时间块失败", zap.Error(err))
		return err
	}
	return nil
}

// loadOwned 加载时间块并校验归属
func (s *timeBlockService) loadOwned(ctx context.Context, studentID, blockID string) (*model.TimeBlock, error) {
	block, err := s.repo.TimeBlock.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeBlockNotFound
		}
		s.logger.Error("查询时间块失败", zap.Error(err))
		return nil, err
	}
	if block.StudentID != studentID {
		return nil, ErrTimeBlockNotOwner
	}
	// 历史 time 列回读可能携带秒，归一后再参与校验与回写
	block.StartTime = normalizeClock(block.StartTime)
	block.EndTime = normalizeClock(block.EndTime)
	return block, nil
}

func toTimeBlockRow(b *model.TimeBlock) *dto.TimeBlockRow {
	return &dto.TimeBlockRow{
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
	}
}
