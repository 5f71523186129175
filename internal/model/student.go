package model

// Student 学生表 — 对应 students
type Student struct {
	StudentID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FullName     string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Username     string `gorm:"type:varchar(50);not null"                      json:"username"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
