package dto

// ── 课表视图 ──

// CourseScheduleRow 课程的单日行（日历视图按天渲染）
type CourseScheduleRow struct {
	OfferingID string `json:"offering_id"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Instructor string `json:"instructor,omitempty"`
	Location   string `json:"location,omitempty"`
	Credits    int    `json:"credits"`
}

// TimeBlockRow 时间块的单日行
type TimeBlockRow struct {
	TimeBlockID  string `json:"time_block_id"`
	BlockGroupID string `json:"block_group_id"`
	Title        string `json:"title"`
	DayOfWeek    int    `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Weeks        int    `json:"weeks"`
	BlockType    string `json:"block_type"`
	Color        string `json:"color,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CompleteScheduleResponse 完整课表（课程 + 时间块，单日行粒度）
type CompleteScheduleResponse struct {
	Courses    []CourseScheduleRow `json:"courses"`
	TimeBlocks []TimeBlockRow      `json:"time_blocks"`
}
