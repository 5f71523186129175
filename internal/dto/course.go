package dto

// CourseResponse 课程目录条目（同一班次的多个上课日聚合为一条）
type CourseResponse struct {
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Days        []int  `json:"days"`
	Instructor  string `json:"instructor,omitempty"`
	Location    string `json:"location,omitempty"`
	SeatsOpen   int    `json:"seats_open"`
	Credits     int    `json:"credits"`
	Description string `json:"description,omitempty"`
}
