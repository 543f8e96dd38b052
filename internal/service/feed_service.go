package service

import (
	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/repository/interfaces"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// DefaultPageSize 信息流默认分页大小
const DefaultPageSize = 10

// FeedService 组装用户信息流
type FeedService struct {
	follows  *FollowService
	postRepo interfaces.PostRepository
}

// NewFeedService 创建一个新的 FeedService 实例
func NewFeedService(follows *FollowService, postRepo interfaces.PostRepository) *FeedService {
	return &FeedService{
		follows:  follows,
		postRepo: postRepo,
	}
}

// ComposeFeed 组装 viewer 的信息流：可见作者的帖子按创建时间倒序，
// 附带作者信息、有序媒体、相对时间以及查询时聚合的点赞/评论数。
// total 始终为未分页的总数；page 超出末页时返回校验错误，
// 但空结果集的第一页是合法的空页
func (s *FeedService) ComposeFeed(viewerID, page, pageSize int) (*model.FeedPage, error) {
	if page < 1 {
		return nil, errors.New(errors.ErrValidation, "无效的页码")
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	authorIDs, err := s.follows.VisibleUserIDs(viewerID)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountPostsByAuthors(authorIDs)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	posts, err := s.postRepo.ListPostsByAuthors(authorIDs, pageSize, offset)
	if err != nil {
		return nil, err
	}

	if page > 1 && len(posts) == 0 {
		return nil, errors.New(errors.ErrValidation, "无效的页码")
	}

	for _, post := range posts {
		post.CreatedAgo = util.TimeAgo(post.CreatedAt)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	util.Logger.Debug("信息流组装完成",
		zap.Int("viewer_id", viewerID),
		zap.Int("total", total),
		zap.Int("count", len(posts)))

	return &model.FeedPage{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    posts,
	}, nil
}
