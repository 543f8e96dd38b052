package post

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/service"
	"github.com/NasirNS45/momento-backend/internal/storage"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// PostHandler 处理帖子与信息流相关的HTTP请求
type PostHandler struct {
	postService *service.PostService
	feedService *service.FeedService
	uploader    storage.Uploader
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService *service.PostService, feedService *service.FeedService, uploader storage.Uploader) *PostHandler {
	return &PostHandler{postService, feedService, uploader}
}

// CreatePost 创建帖子。接受 multipart 表单，
// media 字段可携带多个文件，轮播顺序即文件顺序
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	var postData struct {
		Type                string `form:"type" binding:"required,oneof=post reel"`
		Caption             string `form:"caption"`
		Hashtags            string `form:"hashtags"`
		AllowComments       bool   `form:"allow_comments,default=true"`
		HideLikesViewsCount bool   `form:"hide_likes_views_count"`
	}
	if err := c.ShouldBind(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的表单数据", err))
		return
	}

	input := service.CreatePostInput{
		Type:                model.PostType(postData.Type),
		Caption:             postData.Caption,
		Hashtags:            postData.Hashtags,
		AllowComments:       postData.AllowComments,
		HideLikesViewsCount: postData.HideLikesViewsCount,
	}

	for _, file := range form.File["media"] {
		// 先校验类型，避免上传后才发现扩展名不受支持
		if _, ok := util.MediaTypeFromFilename(file.Filename); !ok {
			errors.HandleError(c, errors.New(errors.ErrValidation, "不支持的媒体文件类型"))
			return
		}
		url, err := h.uploader.UploadFile(file, "posts/"+util.GenerateUniqueFilename(file.Filename))
		if err != nil {
			util.Logger.Error("上传媒体文件失败", zap.Error(err), zap.String("filename", file.Filename))
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传媒体文件失败", err))
			return
		}
		input.Media = append(input.Media, service.MediaInput{
			FileURL:  url,
			Filename: file.Filename,
		})
	}

	created, err := h.postService.CreatePost(userID, input)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, created, "帖子创建成功")
}

// GetFeed 返回当前用户的信息流
func (h *PostHandler) GetFeed(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	feed, err := h.feedService.ComposeFeed(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, feed, "")
}

// GetPost 返回单个帖子
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	post, err := h.postService.GetPost(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, post, "")
}

// DeletePost 删除帖子，仅作者可操作
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "帖子删除成功")
}

// LikePost 点赞帖子
func (h *PostHandler) LikePost(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	if err := h.postService.LikePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "点赞成功")
}

// ListPostLikes 返回帖子的点赞用户列表
func (h *PostHandler) ListPostLikes(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	likes, err := h.postService.ListPostLikes(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, likes, "")
}
