package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Student    StudentRepository
	Offering   OfferingRepository
	Enrollment EnrollmentRepository
	TimeBlock  TimeBlockRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:    NewStudentRepo(db),
		Offering:   NewOfferingRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		TimeBlock:  NewTimeBlockRepo(db),
	}
}
