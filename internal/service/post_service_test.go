package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
)

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post, media []*model.Media, hashtags []string) error {
	args := m.Called(post, media, hashtags)
	return args.Error(0)
}

func (m *MockPostRepository) FindPostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) DeletePost(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) CountPostsByAuthors(authorIDs []int) (int, error) {
	args := m.Called(authorIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) ListPostsByAuthors(authorIDs []int, limit, offset int) ([]*model.Post, error) {
	args := m.Called(authorIDs, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockPostRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockPostRepository) FindCommentByID(id int) (*model.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockPostRepository) ListComments(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockPostRepository) ListReplies(commentID int) ([]*model.Comment, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockPostRepository) LikePost(userID, postID int) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) LikeComment(userID, commentID int) error {
	args := m.Called(userID, commentID)
	return args.Error(0)
}

func (m *MockPostRepository) ListPostLikes(postID int) ([]*model.PostLike, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PostLike), args.Error(1)
}

func (m *MockPostRepository) ListCommentLikes(commentID int) ([]*model.CommentLike, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CommentLike), args.Error(1)
}

// TestParseHashtags 测试话题标签解析与去重
func TestParseHashtags(t *testing.T) {
	assert.Equal(t, []string{"sunset", "beach"}, ParseHashtags("sunset, #beach, Sunset"))
	assert.Empty(t, ParseHashtags(""))
	assert.Empty(t, ParseHashtags(" , ,"))
	assert.Equal(t, []string{"tag_1"}, ParseHashtags("#tag_1"))
}

// TestCreatePost 测试帖子创建
func TestCreatePost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	service := NewPostService(mockPostRepo, new(MockUserRepository))

	mockPostRepo.On("CreatePost",
		mock.AnythingOfType("*model.Post"),
		mock.AnythingOfType("[]*model.Media"),
		[]string{"sunset"},
	).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Post).ID = 1
	}).Return(nil)
	mockPostRepo.On("FindPostByID", 1).Return(&model.Post{
		ID:        1,
		UserID:    1,
		Type:      model.PostTypePost,
		Caption:   "Golden hour #sunset",
		CreatedAt: time.Now(),
		User:      &model.UserSummary{ID: 1, Username: "author"},
	}, nil)

	created, err := service.CreatePost(1, CreatePostInput{
		Type:          model.PostTypePost,
		Caption:       "Golden hour #sunset",
		Hashtags:      "sunset",
		AllowComments: true,
		Media: []MediaInput{
			{FileURL: "/media/posts/a.jpg", Filename: "a.JPG"},
			{FileURL: "/media/posts/b.mp4", Filename: "b.mp4"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.NotEmpty(t, created.CreatedAgo)
	assert.Equal(t, []string{"sunset"}, created.Hashtags)

	// 轮播顺序即上传顺序，类型由扩展名推断
	media := mockPostRepo.Calls[0].Arguments.Get(1).([]*model.Media)
	assert.Equal(t, model.MediaTypeImage, media[0].Type)
	assert.Equal(t, 0, media[0].Position)
	assert.Equal(t, model.MediaTypeVideo, media[1].Type)
	assert.Equal(t, 1, media[1].Position)

	// 无效的帖子类型
	_, err = service.CreatePost(1, CreatePostInput{Type: "story"})
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))

	// 无法识别的媒体扩展名
	_, err = service.CreatePost(1, CreatePostInput{
		Type:  model.PostTypePost,
		Media: []MediaInput{{FileURL: "/media/posts/x.txt", Filename: "x.txt"}},
	})
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))
}

// TestDeletePost 测试帖子删除权限
func TestDeletePost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	service := NewPostService(mockPostRepo, new(MockUserRepository))

	mockPostRepo.On("FindPostByID", 1).Return(&model.Post{ID: 1, UserID: 1}, nil)
	mockPostRepo.On("DeletePost", 1).Return(nil)

	// 作者本人删除
	err := service.DeletePost(1, 1)
	assert.NoError(t, err)

	// 非作者无权删除
	err = service.DeletePost(2, 1)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden, appErrors.CodeOf(err))

	// 帖子不存在
	mockPostRepo.On("FindPostByID", 999).Return(nil, nil)
	err = service.DeletePost(1, 999)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrPostNotFound, appErrors.CodeOf(err))

	mockPostRepo.AssertExpectations(t)
}

// TestAddComment 测试评论与回复的创建
func TestAddComment(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewPostService(mockPostRepo, mockUserRepo)

	mockPostRepo.On("FindPostByID", 1).Return(&model.Post{ID: 1, UserID: 2}, nil)
	mockPostRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Comment).ID = 5
	}).Return(nil)
	mockUserRepo.On("GetSummary", 3).Return(&model.UserSummary{ID: 3, Username: "commenter"}, nil)

	// 顶层评论
	comment, err := service.AddComment(3, 1, nil, "nice shot")
	assert.NoError(t, err)
	assert.Equal(t, 5, comment.ID)
	assert.Nil(t, comment.ParentID)
	assert.Equal(t, "commenter", comment.User.Username)

	// 回复已有评论
	parentID := 5
	mockPostRepo.On("FindCommentByID", 5).Return(&model.Comment{ID: 5, PostID: 1}, nil)
	reply, err := service.AddComment(3, 1, &parentID, "thanks")
	assert.NoError(t, err)
	assert.Equal(t, &parentID, reply.ParentID)

	// 被回复的评论不存在
	missingID := 404
	mockPostRepo.On("FindCommentByID", 404).Return(nil, nil)
	_, err = service.AddComment(3, 1, &missingID, "hello")
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrCommentNotFound, appErrors.CodeOf(err))

	// 被回复的评论属于另一个帖子
	foreignID := 6
	mockPostRepo.On("FindCommentByID", 6).Return(&model.Comment{ID: 6, PostID: 99}, nil)
	_, err = service.AddComment(3, 1, &foreignID, "hello")
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))

	// 帖子不存在
	mockPostRepo.On("FindPostByID", 999).Return(nil, nil)
	_, err = service.AddComment(3, 999, nil, "hello")
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrPostNotFound, appErrors.CodeOf(err))
}

// TestLikePost 测试帖子点赞，重复点赞为无操作
func TestLikePost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	service := NewPostService(mockPostRepo, new(MockUserRepository))

	mockPostRepo.On("FindPostByID", 1).Return(&model.Post{ID: 1}, nil)
	mockPostRepo.On("LikePost", 3, 1).Return(nil)

	assert.NoError(t, service.LikePost(3, 1))
	// 重复点赞同样成功
	assert.NoError(t, service.LikePost(3, 1))

	mockPostRepo.On("FindPostByID", 999).Return(nil, nil)
	err := service.LikePost(3, 999)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrPostNotFound, appErrors.CodeOf(err))
}

// TestListReplies 测试回复列表
func TestListReplies(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	service := NewPostService(mockPostRepo, new(MockUserRepository))

	mockPostRepo.On("FindCommentByID", 1).Return(&model.Comment{ID: 1, PostID: 2}, nil)
	mockPostRepo.On("ListReplies", 1).Return([]*model.Comment{
		{ID: 2, PostID: 2, CreatedAt: time.Now()},
	}, nil)

	replies, err := service.ListReplies(1)
	assert.NoError(t, err)
	assert.Len(t, replies, 1)
	assert.NotEmpty(t, replies[0].CreatedAgo)

	mockPostRepo.On("FindCommentByID", 999).Return(nil, nil)
	_, err = service.ListReplies(999)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrCommentNotFound, appErrors.CodeOf(err))
}
