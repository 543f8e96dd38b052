package mysql

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// followRepository 实现了 FollowRepository 接口
type followRepository struct {
	db *sql.DB
}

// NewFollowRepository 创建一个新的 followRepository 实例
func NewFollowRepository(db *sql.DB) *followRepository {
	return &followRepository{db}
}

const followColumns = `id, followed_id, follower_id, status, created_at, updated_at`

// Create 创建关注边，(followed_id, follower_id) 对的唯一约束由数据库保证
func (r *followRepository) Create(follow *model.Follow) error {
	query := `INSERT INTO follows (followed_id, follower_id, status, created_at, updated_at)
              VALUES (?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query, follow.FollowedID, follow.FollowerID, follow.Status)
	if err != nil {
		util.Logger.Error("创建关注失败", zap.Error(err),
			zap.Int("follower_id", follow.FollowerID),
			zap.Int("followed_id", follow.FollowedID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	follow.ID = int(id)

	util.Logger.Info("关注创建成功",
		zap.Int("follow_id", follow.ID),
		zap.String("status", string(follow.Status)))
	return nil
}

// FindByID 通过ID查找关注边，未找到时返回 nil
func (r *followRepository) FindByID(id int) (*model.Follow, error) {
	query := `SELECT ` + followColumns + ` FROM follows WHERE id = ?`
	var follow model.Follow
	err := r.db.QueryRow(query, id).Scan(
		&follow.ID, &follow.FollowedID, &follow.FollowerID, &follow.Status,
		&follow.CreatedAt, &follow.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// FindByPair 按有序对 (follower, followed) 查找，未找到时返回 nil
func (r *followRepository) FindByPair(followerID, followedID int) (*model.Follow, error) {
	query := `SELECT ` + followColumns + ` FROM follows WHERE follower_id = ? AND followed_id = ?`
	var follow model.Follow
	err := r.db.QueryRow(query, followerID, followedID).Scan(
		&follow.ID, &follow.FollowedID, &follow.FollowerID, &follow.Status,
		&follow.CreatedAt, &follow.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &follow, nil
}

// UpdateStatus 更新关注边状态
func (r *followRepository) UpdateStatus(id int, status model.FollowStatus) error {
	_, err := r.db.Exec(`UPDATE follows SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		util.Logger.Error("更新关注状态失败", zap.Error(err), zap.Int("follow_id", id))
	}
	return err
}

// Delete 删除关注边
func (r *followRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM follows WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除关注失败", zap.Error(err), zap.Int("follow_id", id))
	}
	return err
}

func (r *followRepository) queryEdges(query string, args ...interface{}) ([]*model.Follow, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询关注边失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var edges []*model.Follow
	for rows.Next() {
		var follow model.Follow
		err := rows.Scan(
			&follow.ID, &follow.FollowedID, &follow.FollowerID, &follow.Status,
			&follow.CreatedAt, &follow.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, &follow)
	}
	return edges, rows.Err()
}

// EdgesInvolving 返回用户作为任一端、任意状态的全部关注边
func (r *followRepository) EdgesInvolving(userID int) ([]*model.Follow, error) {
	query := `SELECT ` + followColumns + ` FROM follows WHERE follower_id = ? OR followed_id = ?`
	return r.queryEdges(query, userID, userID)
}

// AcceptedEdgesInvolving 只返回已接受的关注边
func (r *followRepository) AcceptedEdgesInvolving(userID int) ([]*model.Follow, error) {
	query := `SELECT ` + followColumns + ` FROM follows
              WHERE (follower_id = ? OR followed_id = ?) AND status = ?`
	return r.queryEdges(query, userID, userID, model.FollowAccepted)
}
