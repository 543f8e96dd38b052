package user

import (
	"github.com/gin-gonic/gin"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/service"
)

// UserHandler 处理用户信息相关的HTTP请求
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler 创建一个新的 UserHandler 实例
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService}
}

// GetMe 返回当前登录用户的信息
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, user, "")
}

// ListUsers 返回除本人外的全部用户列表
func (h *UserHandler) ListUsers(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	users, err := h.userService.ListUsers(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, users, "")
}
