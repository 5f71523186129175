package model

// Offering 课程班次表 — 对应 offerings
// 同一逻辑班次（CourseID 相同）按上课日展开为多行，每行占用一个 day_of_week。
// CourseID 是把这些行重新聚合成一个课表条目的稳定标识。
type Offering struct {
	OfferingID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"offering_id"`
	CourseID    string `gorm:"type:uuid;not null"                             json:"course_id"`
	CourseName  string `gorm:"type:varchar(100);not null"                     json:"course_name"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7，周一为 1
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"`  // "HH:MM"
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Instructor  string `gorm:"type:varchar(100)"                              json:"instructor,omitempty"`
	Location    string `gorm:"type:varchar(100)"                              json:"location,omitempty"`
	SeatsOpen   int    `gorm:"not null;default:0"                             json:"seats_open"`
	Credits     int    `gorm:"not null;default:0"                             json:"credits"`
	Description string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Offering) TableName() string { return "offerings" }
