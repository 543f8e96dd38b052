package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/NasirNS45/momento-backend/config"
	appErrors "github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", util.ValidateUsername)
	}
}

// MockUserService 是 UserServiceInterface 的模拟实现
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(input service.RegisterInput) (*model.User, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) VerifyOTP(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func (m *MockUserService) Login(email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetSummary(id int) (*model.UserSummary, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSummary), args.Error(1)
}

func (m *MockUserService) ListUsers(viewerID int) ([]*model.UserSummary, error) {
	args := m.Called(viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserSummary), args.Error(1)
}

func (m *MockUserService) UpdateProfile(userID int, input service.ProfileInput) (*model.Profile, error) {
	args := m.Called(userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// 确保 MockUserService 实现了 UserServiceInterface
var _ service.UserServiceInterface = (*MockUserService)(nil)

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRegister 测试注册处理器
func TestRegister(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	// 模拟成功注册
	mockService.On("Register", mock.AnythingOfType("service.RegisterInput")).
		Return(&model.User{ID: 1, Email: "test@example.com"}, nil).Once()

	w := postJSON(router, "/register",
		`{"username": "testuser", "email": "test@example.com", "password": "password123", "name": "Test User"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)

	// 模拟邮箱已被注册
	mockService.On("Register", mock.AnythingOfType("service.RegisterInput")).
		Return(nil, appErrors.New(appErrors.ErrUserExists, "邮箱已被注册")).Once()

	w = postJSON(router, "/register",
		`{"username": "testuser", "email": "test@example.com", "password": "password123", "name": "Test User"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 缺少必填字段
	w = postJSON(router, "/register", `{"username": "testuser"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法用户名
	w = postJSON(router, "/register",
		`{"username": "x", "email": "test@example.com", "password": "password123", "name": "Test User"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestVerifyOTP 测试验证码校验处理器
func TestVerifyOTP(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/verify-otp", handler.VerifyOTP)

	mockService.On("VerifyOTP", "test@example.com", "123456").Return(nil).Once()
	w := postJSON(router, "/verify-otp", `{"email": "test@example.com", "code": "123456"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// 无效的验证码
	mockService.On("VerifyOTP", "test@example.com", "000000").
		Return(appErrors.New(appErrors.ErrValidation, "无效的验证码")).Once()
	w = postJSON(router, "/verify-otp", `{"email": "test@example.com", "code": "000000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 验证码长度不合法，未到服务层就被拦截
	w = postJSON(router, "/verify-otp", `{"email": "test@example.com", "code": "12"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

// TestLogin 测试登录处理器
func TestLogin(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/login", handler.Login)

	// 模拟成功登录
	mockService.On("Login", "test@example.com", "password123").
		Return(&model.User{ID: 1, Email: "test@example.com", IsActive: true}, nil).Once()

	w := postJSON(router, "/login", `{"email": "test@example.com", "password": "password123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.NotEmpty(t, resp.Data.RefreshToken)

	// 模拟凭证错误
	mockService.On("Login", "test@example.com", "wrongpass").
		Return(nil, appErrors.New(appErrors.ErrInvalidCredentials, "邮箱或密码错误")).Once()

	w = postJSON(router, "/login", `{"email": "test@example.com", "password": "wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}
