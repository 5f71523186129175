package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-planner/backend/internal/model"
)

// OfferingRepository 课程班次数据访问接口
type OfferingRepository interface {
	// FindID 按 (课程名, 上课日, 起止时间) 四元组解析班次日 ID
	// 找不到时返回 gorm.ErrRecordNotFound，与存储故障区分
	FindID(ctx context.Context, courseName string, dayOfWeek int, startTime, endTime string) (string, error)
	// ListAll 课程目录全量（按 course_id, day_of_week 排序，保证聚合稳定）
	ListAll(ctx context.Context) ([]model.Offering, error)
	// ListEnrolledRows 学生已选课程的单日行
	ListEnrolledRows(ctx context.Context, studentID string) ([]model.Offering, error)
}

type offeringRepo struct {
	db *gorm.DB
}

// NewOfferingRepo 创建 OfferingRepository 实例
func NewOfferingRepo(db *gorm.DB) OfferingRepository {
	return &offeringRepo{db: db}
}

func (r *offeringRepo) FindID(ctx context.Context, courseName string, dayOfWeek int, startTime, endTime string) (string, error) {
	var offering model.Offering
	err := r.db.WithContext(ctx).
		Select("offering_id").
		Where("course_name = ? AND day_of_week = ? AND start_time = ? AND end_time = ?",
			courseName, dayOfWeek, startTime, endTime).
		First(&offering).Error
	if err != nil {
		return "", err
	}
	return offering.OfferingID, nil
}

func (r *offeringRepo) ListAll(ctx context.Context) ([]model.Offering, error) {
	var offerings []model.Offering
	err := r.db.WithContext(ctx).
		Order("course_id ASC, day_of_week ASC, start_time ASC").
		Find(&offerings).Error
	return offerings, err
}

func (r *offeringRepo) ListEnrolledRows(ctx context.Context, studentID string) ([]model.Offering, error) {
	var offerings []model.Offering
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments e ON e.offering_id = offerings.offering_id").
		Where("e.student_id = ? AND e.enrolled = true", studentID).
		Order("offerings.course_id ASC, offerings.day_of_week ASC, offerings.start_time ASC").
		Find(&offerings).Error
	return offerings, err
}
