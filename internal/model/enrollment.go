package model

// Enrollment 选课记录表 — 对应 enrollments
// (student_id, offering_id) 是重复选课检查的键。
type Enrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string `gorm:"type:uuid;not null"                             json:"student_id"`
	OfferingID   string `gorm:"type:uuid;not null"                             json:"offering_id"`
	Enrolled     bool   `gorm:"not null;default:true"                          json:"enrolled"`
	BaseModel

	// 关联
	Student  *Student  `gorm:"foreignKey:StudentID;references:StudentID"   json:"student,omitempty"`
	Offering *Offering `gorm:"foreignKey:OfferingID;references:OfferingID" json:"offering,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
