package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/repository/interfaces"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// 对关注请求的两种处理动作
const (
	FollowActionAccept = "accept"
	FollowActionReject = "reject"
)

// FollowService 处理关注关系与可见性相关的业务逻辑
type FollowService struct {
	followRepo interfaces.FollowRepository
	userRepo   interfaces.UserRepository
}

// NewFollowService 创建一个新的 FollowService 实例
func NewFollowService(followRepo interfaces.FollowRepository, userRepo interfaces.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// RequestFollow 发起关注请求。目标用户公开时立即接受，否则进入待处理；
// 同一有序对已存在关注边时返回冲突
func (s *FollowService) RequestFollow(followerID, followedID int) (*model.Follow, error) {
	if followerID == followedID {
		return nil, errors.New(errors.ErrValidation, "不能关注自己")
	}

	followed, err := s.userRepo.FindByID(followedID)
	if err != nil {
		return nil, err
	}
	if followed == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	existing, err := s.followRepo.FindByPair(followerID, followedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrResourceExists, "关注关系已存在")
	}

	status := model.FollowPending
	if followed.IsPublic {
		status = model.FollowAccepted
	}

	follow := &model.Follow{
		FollowedID: followedID,
		FollowerID: followerID,
		Status:     status,
	}
	if err := s.followRepo.Create(follow); err != nil {
		return nil, err
	}

	util.Logger.Info("关注请求已创建",
		zap.Int("follower_id", followerID),
		zap.Int("followed_id", followedID),
		zap.String("status", string(status)))
	return follow, nil
}

// ActOnFollow 由被关注者接受或拒绝关注请求。
// 接受是幂等的（已接受再接受不报错），拒绝会删除关注边
func (s *FollowService) ActOnFollow(followID, actingUserID int, action string) error {
	if action != FollowActionAccept && action != FollowActionReject {
		return errors.New(errors.ErrValidation, "无效的操作类型")
	}

	follow, err := s.followRepo.FindByID(followID)
	if err != nil {
		return err
	}
	if follow == nil {
		return errors.New(errors.ErrFollowNotFound, "关注请求不存在")
	}

	// 只有被关注者本人可以处理请求
	if follow.FollowedID != actingUserID {
		return errors.New(errors.ErrForbidden, "无权处理该关注请求")
	}

	if action == FollowActionAccept {
		if err := s.followRepo.UpdateStatus(follow.ID, model.FollowAccepted); err != nil {
			return err
		}
		util.Logger.Info("关注请求已接受", zap.Int("follow_id", follow.ID))
		return nil
	}

	if err := s.followRepo.Delete(follow.ID); err != nil {
		return err
	}
	util.Logger.Info("关注请求已拒绝", zap.Int("follow_id", follow.ID))
	return nil
}

// VisibleUserIDs 返回对 viewer 可见的作者集合：
// 任意方向存在已接受关注边的对端用户。没有已接受的边时返回空集
func (s *FollowService) VisibleUserIDs(viewerID int) ([]int, error) {
	edges, err := s.followRepo.AcceptedEdgesInvolving(viewerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for _, edge := range edges {
		if edge.FollowerID != viewerID {
			seen[edge.FollowerID] = true
		}
		if edge.FollowedID != viewerID {
			seen[edge.FollowedID] = true
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// SuggestedUsers 返回可能认识的人：排除本人以及任意状态、
// 任意方向已有关注边的用户，按ID倒序
func (s *FollowService) SuggestedUsers(viewerID int) ([]*model.UserSummary, error) {
	edges, err := s.followRepo.EdgesInvolving(viewerID)
	if err != nil {
		return nil, err
	}

	seen := map[int]bool{viewerID: true}
	exclude := []int{viewerID}
	for _, edge := range edges {
		if !seen[edge.FollowerID] {
			seen[edge.FollowerID] = true
			exclude = append(exclude, edge.FollowerID)
		}
		if !seen[edge.FollowedID] {
			seen[edge.FollowedID] = true
			exclude = append(exclude, edge.FollowedID)
		}
	}

	users, err := s.userRepo.ListSummaries(exclude)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.UserSummary{}
	}
	return users, nil
}
