package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
)

// TestComposeFeed 测试信息流组装与分页
func TestComposeFeed(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	mockPostRepo := new(MockPostRepository)
	follows := NewFollowService(mockFollowRepo, new(MockUserRepository))
	service := NewFeedService(follows, mockPostRepo)

	mockFollowRepo.On("AcceptedEdgesInvolving", 1).Return([]*model.Follow{
		{ID: 1, FollowerID: 1, FollowedID: 2, Status: model.FollowAccepted},
		{ID: 2, FollowerID: 3, FollowedID: 1, Status: model.FollowAccepted},
	}, nil)
	mockPostRepo.On("CountPostsByAuthors", []int{2, 3}).Return(12, nil)
	mockPostRepo.On("ListPostsByAuthors", []int{2, 3}, 10, 0).Return([]*model.Post{
		{ID: 5, UserID: 2, CreatedAt: time.Now()},
		{ID: 4, UserID: 3, CreatedAt: time.Now().Add(-time.Hour)},
	}, nil)

	page, err := service.ComposeFeed(1, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	// total 始终为未分页的总数
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Items, 2)
	assert.NotEmpty(t, page.Items[0].CreatedAgo)

	// 无效的页码
	_, err = service.ComposeFeed(1, 0, 10)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))

	// 超出末页
	mockPostRepo.On("ListPostsByAuthors", []int{2, 3}, 10, 40).Return(nil, nil)
	_, err = service.ComposeFeed(1, 5, 10)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))
}

// TestComposeFeedEmpty 测试没有已接受关注边时的空首页
func TestComposeFeedEmpty(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	mockPostRepo := new(MockPostRepository)
	follows := NewFollowService(mockFollowRepo, new(MockUserRepository))
	service := NewFeedService(follows, mockPostRepo)

	mockFollowRepo.On("AcceptedEdgesInvolving", 9).Return([]*model.Follow{}, nil)
	mockPostRepo.On("CountPostsByAuthors", []int{}).Return(0, nil)
	mockPostRepo.On("ListPostsByAuthors", []int{}, 10, 0).Return(nil, nil)

	// 空结果集的第一页是合法的空页
	page, err := service.ComposeFeed(9, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

// TestComposeFeedDefaultPageSize 测试默认分页大小
func TestComposeFeedDefaultPageSize(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	mockPostRepo := new(MockPostRepository)
	follows := NewFollowService(mockFollowRepo, new(MockUserRepository))
	service := NewFeedService(follows, mockPostRepo)

	mockFollowRepo.On("AcceptedEdgesInvolving", 1).Return([]*model.Follow{}, nil)
	mockPostRepo.On("CountPostsByAuthors", []int{}).Return(0, nil)
	mockPostRepo.On("ListPostsByAuthors", []int{}, DefaultPageSize, 0).Return(nil, nil)

	page, err := service.ComposeFeed(1, 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	mockPostRepo.AssertExpectations(t)
}
