package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	db *sql.DB
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db}
}

// CreatePost 在一个事务中写入帖子、媒体与话题标签
func (r *postRepository) CreatePost(post *model.Post, media []*model.Media, hashtags []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 插入帖子
	query := `INSERT INTO posts (user_id, type, caption, allow_comments, hide_likes_views_count, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, post.UserID, post.Type, post.Caption,
		post.AllowComments, post.HideLikesViewsCount)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新帖子ID失败", zap.Error(err))
		return err
	}
	post.ID = int(postID)

	// 插入媒体，position 为上传顺序
	if len(media) > 0 {
		query = `INSERT INTO media (post_id, type, file_url, position, created_at) VALUES (?, ?, ?, ?, NOW())`
		for _, m := range media {
			m.PostID = post.ID
			mediaResult, err := tx.Exec(query, m.PostID, m.Type, m.FileURL, m.Position)
			if err != nil {
				util.Logger.Error("插入帖子媒体失败", zap.Error(err))
				return err
			}
			mediaID, err := mediaResult.LastInsertId()
			if err != nil {
				return err
			}
			m.ID = int(mediaID)
		}
	}

	// 话题标签按名称去重写入，再关联到帖子
	for _, name := range hashtags {
		if _, err := tx.Exec(`INSERT IGNORE INTO hashtags (name) VALUES (?)`, name); err != nil {
			util.Logger.Error("写入话题标签失败", zap.Error(err), zap.String("name", name))
			return err
		}
		_, err := tx.Exec(`INSERT IGNORE INTO post_hashtags (post_id, hashtag_id)
                           SELECT ?, id FROM hashtags WHERE name = ?`, post.ID, name)
		if err != nil {
			util.Logger.Error("关联话题标签失败", zap.Error(err), zap.String("name", name))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	post.Media = media
	post.Hashtags = hashtags
	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

// FindPostByID 获取单个帖子及其作者、媒体与聚合计数，未找到时返回 nil
func (r *postRepository) FindPostByID(id int) (*model.Post, error) {
	query := `
        SELECT p.id, p.user_id, p.type, p.caption, p.allow_comments, p.hide_likes_views_count,
               p.created_at, p.updated_at,
               u.username, u.name, pr.profile_picture,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
        FROM posts p
        JOIN users u ON p.user_id = u.id
        LEFT JOIN profiles pr ON pr.user_id = u.id
        WHERE p.id = ?`

	post, err := r.scanPost(r.db.QueryRow(query, id))
	if err != nil || post == nil {
		return post, err
	}

	media, err := r.mediaForPost(post.ID)
	if err != nil {
		return nil, err
	}
	post.Media = media
	return post, nil
}

func (r *postRepository) scanPost(row *sql.Row) (*model.Post, error) {
	var post model.Post
	var user model.UserSummary
	var picture sql.NullString
	var caption sql.NullString
	err := row.Scan(
		&post.ID, &post.UserID, &post.Type, &caption,
		&post.AllowComments, &post.HideLikesViewsCount,
		&post.CreatedAt, &post.UpdatedAt,
		&user.Username, &user.Name, &picture,
		&post.LikeCount, &post.CommentCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	post.Caption = caption.String
	user.ID = post.UserID
	if picture.Valid && picture.String != "" {
		user.ProfilePicture = &picture.String
	}
	post.User = &user
	return &post, nil
}

// mediaForPost 返回帖子的媒体，按 position 排序，相同时按插入顺序
func (r *postRepository) mediaForPost(postID int) ([]*model.Media, error) {
	query := `SELECT id, post_id, type, file_url, position, created_at
              FROM media WHERE post_id = ? ORDER BY position ASC, id ASC`
	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []*model.Media
	for rows.Next() {
		var m model.Media
		err := rows.Scan(&m.ID, &m.PostID, &m.Type, &m.FileURL, &m.Position, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		media = append(media, &m)
	}
	return media, rows.Err()
}

// DeletePost 删除帖子，媒体、评论与点赞由外键级联删除
func (r *postRepository) DeletePost(id int) error {
	_, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

func inPlaceholders(ids []int) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}

// CountPostsByAuthors 返回指定作者的帖子总数
func (r *postRepository) CountPostsByAuthors(authorIDs []int) (int, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}
	placeholders, args := inPlaceholders(authorIDs)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM posts WHERE user_id IN (%s)`, placeholders)

	var total int
	err := r.db.QueryRow(query, args...).Scan(&total)
	return total, err
}

// ListPostsByAuthors 返回指定作者的帖子，按创建时间倒序，
// 点赞数与评论数在查询时聚合
func (r *postRepository) ListPostsByAuthors(authorIDs []int, limit, offset int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inPlaceholders(authorIDs)
	query := fmt.Sprintf(`
        SELECT p.id, p.user_id, p.type, p.caption, p.allow_comments, p.hide_likes_views_count,
               p.created_at, p.updated_at,
               u.username, u.name, pr.profile_picture,
               (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
               (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count
        FROM posts p
        JOIN users u ON p.user_id = u.id
        LEFT JOIN profiles pr ON pr.user_id = u.id
        WHERE p.user_id IN (%s)
        ORDER BY p.created_at DESC
        LIMIT ? OFFSET ?`, placeholders)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询信息流帖子失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var user model.UserSummary
		var picture sql.NullString
		var caption sql.NullString
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Type, &caption,
			&post.AllowComments, &post.HideLikesViewsCount,
			&post.CreatedAt, &post.UpdatedAt,
			&user.Username, &user.Name, &picture,
			&post.LikeCount, &post.CommentCount,
		)
		if err != nil {
			return nil, err
		}
		post.Caption = caption.String
		user.ID = post.UserID
		if picture.Valid && picture.String != "" {
			user.ProfilePicture = &picture.String
		}
		post.User = &user
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 为每个帖子附加有序媒体
	for _, post := range posts {
		media, err := r.mediaForPost(post.ID)
		if err != nil {
			return nil, err
		}
		post.Media = media
	}

	return posts, nil
}

// CreateComment 创建评论
func (r *postRepository) CreateComment(comment *model.Comment) error {
	query := `INSERT INTO comments (user_id, post_id, parent_id, content, created_at, updated_at)
              VALUES (?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query, comment.UserID, comment.PostID, comment.ParentID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)

	util.Logger.Info("评论创建成功",
		zap.Int("comment_id", comment.ID),
		zap.Any("parent_id", comment.ParentID))
	return nil
}

// FindCommentByID 通过ID查找评论，未找到时返回 nil
func (r *postRepository) FindCommentByID(id int) (*model.Comment, error) {
	query := `SELECT id, user_id, post_id, parent_id, content, created_at, updated_at
              FROM comments WHERE id = ?`
	var comment model.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.UserID, &comment.PostID, &comment.ParentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) queryComments(query string, args ...interface{}) ([]*model.Comment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询评论失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var user model.UserSummary
		var picture sql.NullString
		err := rows.Scan(
			&comment.ID, &comment.UserID, &comment.PostID, &comment.ParentID,
			&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
			&user.Username, &user.Name, &picture,
			&comment.ReplyCount, &comment.LikeCount,
		)
		if err != nil {
			return nil, err
		}
		user.ID = comment.UserID
		if picture.Valid && picture.String != "" {
			user.ProfilePicture = &picture.String
		}
		comment.User = &user
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

const commentSelect = `
        SELECT c.id, c.user_id, c.post_id, c.parent_id, c.content, c.created_at, c.updated_at,
               u.username, u.name, pr.profile_picture,
               (SELECT COUNT(*) FROM comments rc WHERE rc.parent_id = c.id) AS reply_count,
               (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count
        FROM comments c
        JOIN users u ON c.user_id = u.id
        LEFT JOIN profiles pr ON pr.user_id = u.id`

// ListComments 返回帖子的评论（含回复），按创建时间升序
func (r *postRepository) ListComments(postID int) ([]*model.Comment, error) {
	query := commentSelect + `
        WHERE c.post_id = ?
        ORDER BY c.created_at ASC`
	return r.queryComments(query, postID)
}

// ListReplies 返回评论的回复列表，按创建时间升序
func (r *postRepository) ListReplies(commentID int) ([]*model.Comment, error) {
	query := commentSelect + `
        WHERE c.parent_id = ?
        ORDER BY c.created_at ASC`
	return r.queryComments(query, commentID)
}

// LikePost 幂等写入点赞记录，唯一约束保证同一 (user, post) 至多一行
func (r *postRepository) LikePost(userID, postID int) error {
	_, err := r.db.Exec(`INSERT IGNORE INTO post_likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`,
		userID, postID)
	if err != nil {
		util.Logger.Error("帖子点赞失败", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("post_id", postID))
	}
	return err
}

// LikeComment 幂等写入评论点赞记录
func (r *postRepository) LikeComment(userID, commentID int) error {
	_, err := r.db.Exec(`INSERT IGNORE INTO comment_likes (user_id, comment_id, created_at) VALUES (?, ?, NOW())`,
		userID, commentID)
	if err != nil {
		util.Logger.Error("评论点赞失败", zap.Error(err),
			zap.Int("user_id", userID), zap.Int("comment_id", commentID))
	}
	return err
}

// ListPostLikes 返回帖子的点赞记录及点赞用户信息
func (r *postRepository) ListPostLikes(postID int) ([]*model.PostLike, error) {
	query := `
        SELECT pl.id, pl.user_id, pl.post_id, pl.created_at,
               u.username, u.name, pr.profile_picture
        FROM post_likes pl
        JOIN users u ON pl.user_id = u.id
        LEFT JOIN profiles pr ON pr.user_id = u.id
        WHERE pl.post_id = ?
        ORDER BY pl.created_at DESC`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		util.Logger.Error("查询帖子点赞失败", zap.Error(err), zap.Int("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	var likes []*model.PostLike
	for rows.Next() {
		var like model.PostLike
		var user model.UserSummary
		var picture sql.NullString
		err := rows.Scan(&like.ID, &like.UserID, &like.PostID, &like.CreatedAt,
			&user.Username, &user.Name, &picture)
		if err != nil {
			return nil, err
		}
		user.ID = like.UserID
		if picture.Valid && picture.String != "" {
			user.ProfilePicture = &picture.String
		}
		like.User = &user
		likes = append(likes, &like)
	}
	return likes, rows.Err()
}

// ListCommentLikes 返回评论的点赞记录及点赞用户信息
func (r *postRepository) ListCommentLikes(commentID int) ([]*model.CommentLike, error) {
	query := `
        SELECT cl.id, cl.user_id, cl.comment_id, cl.created_at,
               u.username, u.name, pr.profile_picture
        FROM comment_likes cl
        JOIN users u ON cl.user_id = u.id
        LEFT JOIN profiles pr ON pr.user_id = u.id
        WHERE cl.comment_id = ?
        ORDER BY cl.created_at DESC`

	rows, err := r.db.Query(query, commentID)
	if err != nil {
		util.Logger.Error("查询评论点赞失败", zap.Error(err), zap.Int("comment_id", commentID))
		return nil, err
	}
	defer rows.Close()

	var likes []*model.CommentLike
	for rows.Next() {
		var like model.CommentLike
		var user model.UserSummary
		var picture sql.NullString
		err := rows.Scan(&like.ID, &like.UserID, &like.CommentID, &like.CreatedAt,
			&user.Username, &user.Name, &picture)
		if err != nil {
			return nil, err
		}
		user.ID = like.UserID
		if picture.Valid && picture.String != "" {
			user.ProfilePicture = &picture.String
		}
		like.User = &user
		likes = append(likes, &like)
	}
	return likes, rows.Err()
}
