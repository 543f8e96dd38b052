package follow

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// FollowHandler 处理关注关系相关的HTTP请求
type FollowHandler struct {
	followService *service.FollowService
}

// NewFollowHandler 创建一个新的 FollowHandler 实例
func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService}
}

// RequestFollow 发起关注请求
func (h *FollowHandler) RequestFollow(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	var followData struct {
		FollowedID int `json:"followed_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&followData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	follow, err := h.followService.RequestFollow(userID, followData.FollowedID)
	if err != nil {
		util.Logger.Warn("关注请求失败", zap.Error(err),
			zap.Int("follower_id", userID), zap.Int("followed_id", followData.FollowedID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, follow, "关注请求已提交")
}

// ActOnFollow 被关注者接受或拒绝关注请求
func (h *FollowHandler) ActOnFollow(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	followID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的关注请求ID", err))
		return
	}

	var actionData struct {
		Action string `json:"action" binding:"required,oneof=accept reject"`
	}
	if err := c.ShouldBindJSON(&actionData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.followService.ActOnFollow(followID, userID, actionData.Action); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "操作成功")
}

// SuggestedUsers 返回可能认识的人
func (h *FollowHandler) SuggestedUsers(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	users, err := h.followService.SuggestedUsers(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, users, "")
}
