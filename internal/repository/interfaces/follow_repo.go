package interfaces

import "github.com/NasirNS45/momento-backend/internal/model"

// FollowRepository 定义了关注关系的数据库操作接口
type FollowRepository interface {
	Create(follow *model.Follow) error
	FindByID(id int) (*model.Follow, error)
	// FindByPair 按 (follower, followed) 有序对查找，未找到时返回 nil
	FindByPair(followerID, followedID int) (*model.Follow, error)
	UpdateStatus(id int, status model.FollowStatus) error
	Delete(id int) error
	// EdgesInvolving 返回用户作为任一端、任意状态的全部关注边
	EdgesInvolving(userID int) ([]*model.Follow, error)
	// AcceptedEdgesInvolving 只返回已接受的关注边
	AcceptedEdgesInvolving(userID int) ([]*model.Follow, error)
}
