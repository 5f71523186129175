package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"schedule-planner/backend/config"
	"schedule-planner/backend/internal/model"
	"schedule-planner/backend/internal/repository"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = "stu-" + student.Username
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *mockStudentRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, s := range m.students {
		if s.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock OfferingRepository ──

type mockOfferingRepo struct {
	offerings []model.Offering
	enrolled  map[string][]string // studentID → offeringIDs（与 mockEnrollmentRepo 共享）
	nextID    int
}

func newMockOfferingRepo() *mockOfferingRepo {
	return &mockOfferingRepo{enrolled: make(map[string][]string)}
}

// addCourse 按天展开写入一个逻辑班次，返回 course_id
func (m *mockOfferingRepo) addCourse(name string, days []int, startTime, endTime string) string {
	m.nextID++
	courseID := fmt.Sprintf("course-%d", m.nextID)
	for _, day := range days {
		m.offerings = append(m.offerings, model.Offering{
			OfferingID: fmt.Sprintf("%s-day%d", courseID, day),
			CourseID:   courseID,
			CourseName: name,
			DayOfWeek:  day,
			StartTime:  startTime,
			EndTime:    endTime,
		})
	}
	return courseID
}

func (m *mockOfferingRepo) FindID(_ context.Context, courseName string, dayOfWeek int, startTime, endTime string) (string, error) {
	for _, o := range m.offerings {
		if o.CourseName == courseName && o.DayOfWeek == dayOfWeek &&
			o.StartTime == startTime && o.EndTime == endTime {
			return o.OfferingID, nil
		}
	}
	return "", gorm.ErrRecordNotFound
}

func (m *mockOfferingRepo) ListAll(_ context.Context) ([]model.Offering, error) {
	result := make([]model.Offering, len(m.offerings))
	copy(result, m.offerings)
	return result, nil
}

func (m *mockOfferingRepo) ListEnrolledRows(_ context.Context, studentID string) ([]model.Offering, error) {
	enrolledIDs := make(map[string]bool)
	for _, id := range m.enrolled[studentID] {
		enrolledIDs[id] = true
	}
	var result []model.Offering
	for _, o := range m.offerings {
		if enrolledIDs[o.OfferingID] {
			result = append(result, o)
		}
	}
	return result, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	offeringRepo *mockOfferingRepo
	failEnroll   bool // 注入写入失败
}

func newMockEnrollmentRepo(offeringRepo *mockOfferingRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{offeringRepo: offeringRepo}
}

func (m *mockEnrollmentRepo) IsEnrolled(_ context.Context, studentID, offeringID string) (bool, error) {
	for _, id := range m.offeringRepo.enrolled[studentID] {
		if id == offeringID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) Enroll(_ context.Context, enrollment *model.Enrollment) error {
	if m.failEnroll {
		return fmt.Errorf("模拟写入失败")
	}
	m.offeringRepo.enrolled[enrollment.StudentID] = append(
		m.offeringRepo.enrolled[enrollment.StudentID], enrollment.OfferingID)
	return nil
}

// ── Mock TimeBlockRepository ──

type mockTimeBlockRepo struct {
	blocks []model.TimeBlock
	nextID int
}

func newMockTimeBlockRepo() *mockTimeBlockRepo {
	return &mockTimeBlockRepo{}
}

func (m *mockTimeBlockRepo) CreateDay(_ context.Context, block *model.TimeBlock) error {
	if block.TimeBlockID == "" {
		m.nextID++
		block.TimeBlockID = fmt.Sprintf("tb-%d", m.nextID)
	}
	m.blocks = append(m.blocks, *block)
	return nil
}

func (m *mockTimeBlockRepo) ListByStudent(_ context.Context, studentID string) ([]model.TimeBlock, error) {
	var result []model.TimeBlock
	for _, b := range m.blocks {
		if b.StudentID == studentID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockTimeBlockRepo) GetByID(_ context.Context, id string) (*model.TimeBlock, error) {
	for i := range m.blocks {
		if m.blocks[i].TimeBlockID == id {
			return &m.blocks[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeBlockRepo) Update(_ context.Context, block *model.TimeBlock) error {
	for i := range m.blocks {
		if m.blocks[i].TimeBlockID == block.TimeBlockID {
			m.blocks[i] = *block
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockTimeBlockRepo) Delete(_ context.Context, id string) error {
	for i := range m.blocks {
		if m.blocks[i].TimeBlockID == id {
			m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── 测试辅助 ──

func newTestConfig() *config.Config {
	return &config.Config{
		Planner: config.PlannerConfig{
			TypeColors: map[string]string{
				"club":     "#9C27B0",
				"job":      "#FF5722",
				"break":    "#4CAF50",
				"personal": "#FF9800",
				"other":    "#607D8B",
			},
			DefaultColor: "#607D8B",
		},
	}
}

type testRepos struct {
	student    *mockStudentRepo
	offering   *mockOfferingRepo
	enrollment *mockEnrollmentRepo
	timeBlock  *mockTimeBlockRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	studentRepo := newMockStudentRepo()
	offeringRepo := newMockOfferingRepo()
	enrollmentRepo := newMockEnrollmentRepo(offeringRepo)
	timeBlockRepo := newMockTimeBlockRepo()

	repo := &repository.Repository{
		Student:    studentRepo,
		Offering:   offeringRepo,
		Enrollment: enrollmentRepo,
		TimeBlock:  timeBlockRepo,
	}
	return repo, &testRepos{
		student:    studentRepo,
		offering:   offeringRepo,
		enrollment: enrollmentRepo,
		timeBlock:  timeBlockRepo,
	}
}
