package model

// TimeBlock 个人时间块表 — 对应 time_blocks
// 一次提交的多日时间块按占用日展开为多行，BlockGroupID 相同。
type TimeBlock struct {
	TimeBlockID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_block_id"`
	BlockGroupID string `gorm:"type:uuid;not null"                             json:"block_group_id"`
	StudentID    string `gorm:"type:uuid;not null"                             json:"student_id"`
	Title        string `gorm:"type:varchar(100);not null"                     json:"title"`
	DayOfWeek    int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7，周一为 1
	StartTime    string `gorm:"type:varchar(5);not null"                       json:"start_time"`  // "HH:MM"
	EndTime      string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Weeks        int    `gorm:"not null;default:15"                            json:"weeks"`
	BlockType    string `gorm:"type:varchar(20);not null;default:'other'"      json:"block_type"` // club | job | break | personal | other
	Color        string `gorm:"type:varchar(10)"                               json:"color,omitempty"`
	Description  string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (TimeBlock) TableName() string { return "time_blocks" }
