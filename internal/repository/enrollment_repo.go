package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-planner/backend/internal/model"
)

// EnrollmentRepository 选课记录数据访问接口
type EnrollmentRepository interface {
	// IsEnrolled 检查学生是否已选某班次日
	IsEnrolled(ctx context.Context, studentID, offeringID string) (bool, error)
	// Enroll 写入选课记录
	// 并发提交下唯一索引 idx_enrollments_student_offering 兜底拦截重复写入
	Enroll(ctx context.Context, enrollment *model.Enrollment) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) IsEnrolled(ctx context.Context, studentID, offeringID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND offering_id = ? AND enrolled = true", studentID, offeringID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) Enroll(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}
