package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/repository/interfaces"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// MediaInput 已上传媒体的信息，类型由原始文件名推断
type MediaInput struct {
	FileURL  string
	Filename string
}

// CreatePostInput 创建帖子的输入，Hashtags 为逗号分隔的原始字符串
type CreatePostInput struct {
	Type                model.PostType
	Caption             string
	Hashtags            string
	AllowComments       bool
	HideLikesViewsCount bool
	Media               []MediaInput
}

// PostService 处理帖子、评论与点赞相关的业务逻辑
type PostService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// ParseHashtags 解析逗号分隔的话题标签：去掉 # 前缀与空白，
// 统一小写并去重，空项被忽略
func ParseHashtags(raw string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}

// CreatePost 创建帖子。媒体类型由文件扩展名推断，无法识别的扩展名会被拒绝；
// 媒体的轮播顺序即上传顺序
func (s *PostService) CreatePost(userID int, input CreatePostInput) (*model.Post, error) {
	if input.Type != model.PostTypePost && input.Type != model.PostTypeReel {
		return nil, errors.New(errors.ErrValidation, "无效的帖子类型")
	}

	media := make([]*model.Media, 0, len(input.Media))
	for i, m := range input.Media {
		mediaType, ok := util.MediaTypeFromFilename(m.Filename)
		if !ok {
			return nil, errors.New(errors.ErrValidation, "不支持的媒体文件类型")
		}
		media = append(media, &model.Media{
			Type:     mediaType,
			FileURL:  m.FileURL,
			Position: i,
		})
	}

	post := &model.Post{
		UserID:              userID,
		Type:                input.Type,
		Caption:             input.Caption,
		AllowComments:       input.AllowComments,
		HideLikesViewsCount: input.HideLikesViewsCount,
	}
	hashtags := ParseHashtags(input.Hashtags)

	if err := s.postRepo.CreatePost(post, media, hashtags); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}

	// 回读以获取作者信息与时间戳
	created, err := s.postRepo.FindPostByID(post.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if created == nil {
		return nil, errors.New(errors.ErrInternal, "帖子创建后不可见")
	}
	created.Hashtags = hashtags
	created.CreatedAgo = util.TimeAgo(created.CreatedAt)
	return created, nil
}

// GetPost 获取单个帖子
func (s *PostService) GetPost(id int) (*model.Post, error) {
	post, err := s.postRepo.FindPostByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	post.CreatedAgo = util.TimeAgo(post.CreatedAt)
	return post, nil
}

// DeletePost 删除帖子，仅作者本人可删除
func (s *PostService) DeletePost(userID, postID int) error {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.UserID != userID {
		return errors.New(errors.ErrForbidden, "无权删除该帖子")
	}

	if err := s.postRepo.DeletePost(postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}
	util.Logger.Info("帖子已删除", zap.Int("post_id", postID), zap.Int("user_id", userID))
	return nil
}

// AddComment 为帖子创建评论。parentID 非空时为回复，
// 被回复的评论必须存在且属于同一帖子
func (s *PostService) AddComment(userID, postID int, parentID *int, content string) (*model.Comment, error) {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if parentID != nil {
		parent, err := s.postRepo.FindCommentByID(*parentID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
		}
		if parent == nil {
			return nil, errors.New(errors.ErrCommentNotFound, "被回复的评论不存在")
		}
		if parent.PostID != postID {
			return nil, errors.New(errors.ErrValidation, "被回复的评论不属于该帖子")
		}
	}

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.postRepo.CreateComment(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}

	user, err := s.userRepo.GetSummary(userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	comment.User = user
	comment.CreatedAgo = util.TimeAgo(comment.CreatedAt)
	return comment, nil
}

// ListComments 返回帖子的全部评论，按创建时间升序
func (s *PostService) ListComments(postID int) ([]*model.Comment, error) {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	comments, err := s.postRepo.ListComments(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	for _, c := range comments {
		c.CreatedAgo = util.TimeAgo(c.CreatedAt)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

// ListReplies 返回评论的回复列表，按创建时间升序
func (s *PostService) ListReplies(commentID int) ([]*model.Comment, error) {
	comment, err := s.postRepo.FindCommentByID(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	replies, err := s.postRepo.ListReplies(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询回复失败", err)
	}
	for _, r := range replies {
		r.CreatedAgo = util.TimeAgo(r.CreatedAt)
	}
	if replies == nil {
		replies = []*model.Comment{}
	}
	return replies, nil
}

// LikePost 点赞帖子，重复点赞为无操作
func (s *PostService) LikePost(userID, postID int) error {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if err := s.postRepo.LikePost(userID, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "帖子点赞失败", err)
	}
	return nil
}

// LikeComment 点赞评论，重复点赞为无操作
func (s *PostService) LikeComment(userID, commentID int) error {
	comment, err := s.postRepo.FindCommentByID(commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "评论不存在")
	}
	if err := s.postRepo.LikeComment(userID, commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "评论点赞失败", err)
	}
	return nil
}

// ListPostLikes 返回帖子的点赞用户列表
func (s *PostService) ListPostLikes(postID int) ([]*model.PostLike, error) {
	post, err := s.postRepo.FindPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	likes, err := s.postRepo.ListPostLikes(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子点赞失败", err)
	}
	for _, l := range likes {
		l.CreatedAgo = util.TimeAgo(l.CreatedAt)
	}
	if likes == nil {
		likes = []*model.PostLike{}
	}
	return likes, nil
}

// ListCommentLikes 返回评论的点赞用户列表
func (s *PostService) ListCommentLikes(commentID int) ([]*model.CommentLike, error) {
	comment, err := s.postRepo.FindCommentByID(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	likes, err := s.postRepo.ListCommentLikes(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论点赞失败", err)
	}
	for _, l := range likes {
		l.CreatedAgo = util.TimeAgo(l.CreatedAt)
	}
	if likes == nil {
		likes = []*model.CommentLike{}
	}
	return likes, nil
}
