package post

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/service"
)

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	postService *service.PostService
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(postService *service.PostService) *CommentHandler {
	return &CommentHandler{postService}
}

// AddComment 为帖子创建评论，parent_id 非空时为回复
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	var commentData struct {
		Content  string `json:"content" binding:"required"`
		ParentID *int   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment, err := h.postService.AddComment(userID, postID, commentData.ParentID, commentData.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, comment, "评论创建成功")
}

// ListComments 返回帖子的全部评论
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	comments, err := h.postService.ListComments(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, comments, "")
}

// ListReplies 返回评论的回复列表
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}

	replies, err := h.postService.ListReplies(commentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, replies, "")
}

// LikeComment 点赞评论
func (h *CommentHandler) LikeComment(c *gin.Context) {
	userID := c.MustGet("user_id").(int)

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}

	if err := h.postService.LikeComment(userID, commentID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "点赞成功")
}

// ListCommentLikes 返回评论的点赞用户列表
func (h *CommentHandler) ListCommentLikes(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}

	likes, err := h.postService.ListCommentLikes(commentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, likes, "")
}
