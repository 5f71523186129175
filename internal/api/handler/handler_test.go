package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"schedule-planner/backend/internal/dto"
	"schedule-planner/backend/internal/service"
	"schedule-planner/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.TokenResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
	meResult       *dto.StudentResponse
	meErr          error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.StudentResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock CartService ──

type mockCartService struct {
	checkResult   []dto.Conflict
	checkErr      error
	processResult *dto.BatchResult
	processErr    error
	itemsResult   []dto.ScheduleItem
	itemsErr      error
}

func (m *mockCartService) CheckConflicts(_ context.Context, _ string, _ []dto.CartItemRequest) ([]dto.Conflict, error) {
	return m.checkResult, m.checkErr
}
func (m *mockCartService) ProcessBatch(_ context.Context, _ string, _ []dto.CartItemRequest) (*dto.BatchResult, error) {
	return m.processResult, m.processErr
}
func (m *mockCartService) GetScheduleItems(_ context.Context, _ string) ([]dto.ScheduleItem, error) {
	return m.itemsResult, m.itemsErr
}

// ── 测试辅助 ──

func setAuth(c *gin.Context) {
	c.Set("student_id", "test-student-id")
	c.Set("email", "test@test.com")
	c.Set("token_jti", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Login_WrongCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "stu@test.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailTaken}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		FullName: "新同学",
		Username: "newbie",
		Email:    "taken@test.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected business code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CartHandler Tests
// ═══════════════════════════════════════════════════════════

func cartBody() io.Reader {
	return jsonBody(map[string]interface{}{
		"items": []dto.CartItemRequest{
			{Kind: "timeblock", Name: "健身", Days: []int{2}, StartTime: "18:00", EndTime: "19:30"},
		},
	})
}

func TestCartHandler_Process_Accepted(t *testing.T) {
	mock := &mockCartService{
		processResult: &dto.BatchResult{
			Accepted: true,
			Outcomes: []dto.CommitOutcome{{ItemName: "健身", Overall: dto.OutcomeSuccess}},
			Summary:  "全部 1 个条目已加入课表",
		},
	}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/process", cartBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/process", func(c *gin.Context) {
		setAuth(c)
		h.Process(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCartHandler_Process_RejectedIs409(t *testing.T) {
	mock := &mockCartService{
		processResult: &dto.BatchResult{
			Accepted:  false,
			Conflicts: []dto.Conflict{{ItemName: "健身", OtherName: "社团活动", DayOfWeek: 2}},
			Summary:   "检测到 1 处时间冲突，批次已整体拒绝",
		},
	}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/process", cartBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/process", func(c *gin.Context) {
		setAuth(c)
		h.Process(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12001 {
		t.Errorf("expected business code 12001, got %d", resp.Code)
	}
}

func TestCartHandler_Process_InvalidItem(t *testing.T) {
	mock := &mockCartService{processErr: service.ErrCartInvalidItem}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/process", cartBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/process", func(c *gin.Context) {
		setAuth(c)
		h.Process(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCartHandler_Process_BadJSON(t *testing.T) {
	mock := &mockCartService{}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/process", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/process", func(c *gin.Context) {
		setAuth(c)
		h.Process(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCartHandler_CheckConflicts_NoWrites(t *testing.T) {
	mock := &mockCartService{
		checkResult: []dto.Conflict{{ItemName: "健身", OtherName: "社团活动", DayOfWeek: 2}},
	}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/check-conflicts", cartBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/check-conflicts", func(c *gin.Context) {
		setAuth(c)
		h.CheckConflicts(c)
	})
	r.ServeHTTP(w, req)

	// 检查接口只报告冲突，HTTP 层始终 200
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCartHandler_Unauthenticated(t *testing.T) {
	mock := &mockCartService{}
	h := NewCartHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/cart/process", cartBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cart/process", h.Process)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
