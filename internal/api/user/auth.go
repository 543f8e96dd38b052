package user

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username    string `json:"username" binding:"required,username"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		Name        string `json:"name" binding:"required"`
		DateOfBirth string `json:"date_of_birth"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	input := service.RegisterInput{
		Username: registerData.Username,
		Email:    registerData.Email,
		Password: registerData.Password,
		Name:     registerData.Name,
	}
	if registerData.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", registerData.DateOfBirth)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的出生日期格式", err))
			return
		}
		input.DateOfBirth = &dob
	}

	user, err := h.userService.Register(input)
	if err != nil {
		util.Logger.Warn("注册失败", zap.Error(err), zap.String("email", registerData.Email))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user_id": user.ID,
	}, "注册成功，验证码已发送至邮箱")
}

// VerifyOTP 处理邮箱验证码校验
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var verifyData struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6"`
	}

	if err := c.ShouldBindJSON(&verifyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.userService.VerifyOTP(verifyData.Email, verifyData.Code); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "账户验证成功")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}
	refreshToken, err := util.GenerateRefreshToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成刷新令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          user,
	}, "登录成功")
}

// RefreshToken 用刷新令牌换取新的访问令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshData struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&refreshData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	token, err := util.RefreshToken(refreshData.RefreshToken)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "无效或过期的刷新令牌", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
	}, "令牌刷新成功")
}
