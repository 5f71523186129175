package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-planner/backend/internal/model"
)

// TimeBlockRepository 时间块数据访问接口
type TimeBlockRepository interface {
	// CreateDay 写入一个占用日的时间块行
	CreateDay(ctx context.Context, block *model.TimeBlock) error
	// ListByStudent 学生全部时间块单日行（按 block_group_id, day_of_week 排序，保证聚合稳定）
	ListByStudent(ctx context.Context, studentID string) ([]model.TimeBlock, error)
	GetByID(ctx context.Context, id string) (*model.TimeBlock, error)
	Update(ctx context.Context, block *model.TimeBlock) error
	Delete(ctx context.Context, id string) error
}

type timeBlockRepo struct {
	db *gorm.DB
}

// NewTimeBlockRepo 创建 TimeBlockRepository 实例
func NewTimeBlockRepo(db *gorm.DB) TimeBlockRepository {
	return &timeBlockRepo{db: db}
}

func (r *timeBlockRepo) CreateDay(ctx context.Context, block *model.TimeBlock) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *timeBlockRepo) ListByStudent(ctx context.Context, studentID string) ([]model.TimeBlock, error) {
	var blocks []model.TimeBlock
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("block_group_id ASC, day_of_week ASC, start_time ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *timeBlockRepo) GetByID(ctx context.Context, id string) (*model.TimeBlock, error) {
	var block model.TimeBlock
	err := r.db.WithContext(ctx).
		Where("time_block_id = ?", id).
		First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *timeBlockRepo) Update(ctx context.Context, block *model.TimeBlock) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *timeBlockRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("time_block_id = ?", id).
		Delete(&model.TimeBlock{}).Error
}
