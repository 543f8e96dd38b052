package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appErrors "github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
)

// MockFollowRepository 是 FollowRepository 接口的模拟实现
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(follow *model.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockFollowRepository) FindByID(id int) (*model.Follow, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Follow), args.Error(1)
}

func (m *MockFollowRepository) FindByPair(followerID, followedID int) (*model.Follow, error) {
	args := m.Called(followerID, followedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Follow), args.Error(1)
}

func (m *MockFollowRepository) UpdateStatus(id int, status model.FollowStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockFollowRepository) EdgesInvolving(userID int) ([]*model.Follow, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Follow), args.Error(1)
}

func (m *MockFollowRepository) AcceptedEdgesInvolving(userID int) ([]*model.Follow, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Follow), args.Error(1)
}

// TestRequestFollow 测试关注请求：公开账户立即接受，私密账户进入待处理
func TestRequestFollow(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewFollowService(mockFollowRepo, mockUserRepo)

	// 公开账户：立即接受
	mockUserRepo.On("FindByID", 2).Return(&model.User{ID: 2, IsPublic: true}, nil)
	mockFollowRepo.On("FindByPair", 1, 2).Return(nil, nil)
	mockFollowRepo.On("Create", mock.AnythingOfType("*model.Follow")).Return(nil)

	follow, err := service.RequestFollow(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, model.FollowAccepted, follow.Status)
	assert.Equal(t, 1, follow.FollowerID)
	assert.Equal(t, 2, follow.FollowedID)

	// 私密账户：进入待处理
	mockUserRepo.On("FindByID", 3).Return(&model.User{ID: 3, IsPublic: false}, nil)
	mockFollowRepo.On("FindByPair", 1, 3).Return(nil, nil)

	follow, err = service.RequestFollow(1, 3)
	assert.NoError(t, err)
	assert.Equal(t, model.FollowPending, follow.Status)

	// 不能关注自己
	_, err = service.RequestFollow(1, 1)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))

	// 目标用户不存在
	mockUserRepo.On("FindByID", 999).Return(nil, nil)
	_, err = service.RequestFollow(1, 999)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrUserNotFound, appErrors.CodeOf(err))

	// 同一有序对已存在关注边
	mockUserRepo.On("FindByID", 4).Return(&model.User{ID: 4, IsPublic: true}, nil)
	mockFollowRepo.On("FindByPair", 1, 4).Return(&model.Follow{ID: 7}, nil)
	_, err = service.RequestFollow(1, 4)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrResourceExists, appErrors.CodeOf(err))

	mockFollowRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

// TestActOnFollow 测试接受与拒绝关注请求
func TestActOnFollow(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	service := NewFollowService(mockFollowRepo, new(MockUserRepository))

	pending := &model.Follow{ID: 10, FollowerID: 1, FollowedID: 2, Status: model.FollowPending}

	// 被关注者接受请求
	mockFollowRepo.On("FindByID", 10).Return(pending, nil)
	mockFollowRepo.On("UpdateStatus", 10, model.FollowAccepted).Return(nil)
	err := service.ActOnFollow(10, 2, FollowActionAccept)
	assert.NoError(t, err)

	// 非被关注者无权处理
	err = service.ActOnFollow(10, 1, FollowActionAccept)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden, appErrors.CodeOf(err))

	// 拒绝会删除关注边
	mockFollowRepo.On("Delete", 10).Return(nil)
	err = service.ActOnFollow(10, 2, FollowActionReject)
	assert.NoError(t, err)

	// 无效的操作类型
	err = service.ActOnFollow(10, 2, "block")
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation, appErrors.CodeOf(err))

	// 请求不存在
	mockFollowRepo.On("FindByID", 999).Return(nil, nil)
	err = service.ActOnFollow(999, 2, FollowActionAccept)
	assert.Error(t, err)
	assert.Equal(t, appErrors.ErrFollowNotFound, appErrors.CodeOf(err))

	mockFollowRepo.AssertExpectations(t)
}

// TestVisibleUserIDs 测试可见作者集合：双向已接受关注边的对端用户
func TestVisibleUserIDs(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	service := NewFollowService(mockFollowRepo, new(MockUserRepository))

	mockFollowRepo.On("AcceptedEdgesInvolving", 1).Return([]*model.Follow{
		{ID: 1, FollowerID: 1, FollowedID: 5, Status: model.FollowAccepted},
		{ID: 2, FollowerID: 3, FollowedID: 1, Status: model.FollowAccepted},
		{ID: 3, FollowerID: 1, FollowedID: 3, Status: model.FollowAccepted}, // 对端重复
	}, nil)

	ids, err := service.VisibleUserIDs(1)
	assert.NoError(t, err)
	assert.Equal(t, []int{3, 5}, ids)

	// 没有已接受的边时返回空集
	mockFollowRepo.On("AcceptedEdgesInvolving", 9).Return([]*model.Follow{}, nil)
	ids, err = service.VisibleUserIDs(9)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

// TestSuggestedUsers 测试推荐用户：排除本人及任意方向已有关注边的用户
func TestSuggestedUsers(t *testing.T) {
	mockFollowRepo := new(MockFollowRepository)
	mockUserRepo := new(MockUserRepository)
	service := NewFollowService(mockFollowRepo, mockUserRepo)

	mockFollowRepo.On("EdgesInvolving", 1).Return([]*model.Follow{
		{ID: 1, FollowerID: 1, FollowedID: 2, Status: model.FollowAccepted},
		{ID: 2, FollowerID: 4, FollowedID: 1, Status: model.FollowPending}, // 待处理的边同样排除
	}, nil)
	mockUserRepo.On("ListSummaries", []int{1, 2, 4}).Return([]*model.UserSummary{
		{ID: 7, Username: "stranger"},
	}, nil)

	users, err := service.SuggestedUsers(1)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 7, users[0].ID)
	mockFollowRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}
