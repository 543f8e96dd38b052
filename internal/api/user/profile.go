package user

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/storage"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
	uploader    storage.Uploader
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService service.UserServiceInterface, uploader storage.Uploader) *ProfileHandler {
	return &ProfileHandler{userService, uploader}
}

// UpdateProfile 更新用户资料。接受 multipart 表单，
// 只更新表单中出现的字段；头像与封面作为文件上传
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	var input service.ProfileInput
	if bio, ok := c.GetPostForm("bio"); ok {
		input.Bio = &bio
	}
	if website, ok := c.GetPostForm("website"); ok {
		input.Website = &website
	}
	if gender, ok := c.GetPostForm("gender"); ok {
		input.Gender = &gender
	}

	if file, err := c.FormFile("profile_picture"); err == nil {
		url, err := h.uploader.UploadFile(file, "profiles/"+util.GenerateUniqueFilename(file.Filename))
		if err != nil {
			util.Logger.Error("上传头像失败", zap.Error(err), zap.Int("user_id", userID))
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
			return
		}
		input.ProfilePicture = &url
	}
	if file, err := c.FormFile("cover_picture"); err == nil {
		url, err := h.uploader.UploadFile(file, "profiles/"+util.GenerateUniqueFilename(file.Filename))
		if err != nil {
			util.Logger.Error("上传封面失败", zap.Error(err), zap.Int("user_id", userID))
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传封面失败", err))
			return
		}
		input.CoverPicture = &url
	}

	profile, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, profile, "资料更新成功")
}
