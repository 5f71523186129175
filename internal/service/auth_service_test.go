package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"schedule-planner/backend/config"
	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/model"
	"schedule-planner/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *testRepos) {
	cfg := newTestConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	}

	repo, mocks := newTestRepos()
	jwtMgr := jwt.NewManager(&cfg.Auth)

	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, mocks
}

func createTestStudent(mocks *testRepos, email, password string) *model.Student {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	student := &model.Student{
		StudentID:    "stu-" + email,
		FullName:     "测试学生",
		Username:     "tester",
		Email:        email,
		PasswordHash: string(hash),
	}
	mocks.student.students[student.StudentID] = student
	return student
}

// ── 注册测试 ──

func TestRegister_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "新同学",
		Username: "newbie",
		Email:    "new@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("注册后应直接签发 Token 对")
	}
	if result.Student.Email != "new@test.com" {
		t.Errorf("期望 email=new@test.com，实际=%s", result.Student.Email)
	}

	// 密码不以明文存储
	for _, s := range mocks.student.students {
		if s.PasswordHash == "password123" {
			t.Error("密码不应明文落库")
		}
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "taken@test.com", "password123")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "新同学",
		Username: "someone-else",
		Email:    "taken@test.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "a@test.com", "password123") // username: tester

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "新同学",
		Username: "tester",
		Email:    "b@test.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际: %v", err)
	}
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "stu@test.com", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken 不应为空")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望 ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "stu@test.com", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "wrong_password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_StudentNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@test.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials（不区分用户不存在与密码错误），实际: %v", err)
	}
}

// ── Refresh 测试 ──

func TestRefresh_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "stu@test.com", "password123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("Refresh 应签发新的 Token 对")
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	svc, mocks := setupTestAuthService()
	createTestStudent(mocks, "stu@test.com", "password123")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "password123",
	})

	// 用 Access Token 冒充 Refresh Token
	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{
		RefreshToken: "not-a-jwt",
	})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

// ── Me 测试 ──

func TestMe_Success(t *testing.T) {
	svc, mocks := setupTestAuthService()
	student := createTestStudent(mocks, "stu@test.com", "password123")

	result, err := svc.Me(context.Background(), student.StudentID)
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if result.Email != "stu@test.com" || result.FullName != "测试学生" {
		t.Errorf("学生信息不匹配: %+v", result)
	}
}

func TestMe_NotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Me(context.Background(), "ghost")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestLogout_NoRedis(t *testing.T) {
	svc, _ := setupTestAuthService()

	// Redis 降级运行时登出为空操作
	if err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("无 Redis 时 Logout 应为空操作: %v", err)
	}
}
