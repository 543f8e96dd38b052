package interfaces

import "github.com/NasirNS45/momento-backend/internal/model"

// PostRepository 定义了帖子与互动相关的数据库操作接口
type PostRepository interface {
	// CreatePost 在一个事务中写入帖子、媒体与话题标签
	CreatePost(post *model.Post, media []*model.Media, hashtags []string) error
	FindPostByID(id int) (*model.Post, error)
	DeletePost(id int) error
	// CountPostsByAuthors 返回指定作者的帖子总数（与分页无关）
	CountPostsByAuthors(authorIDs []int) (int, error)
	// ListPostsByAuthors 返回指定作者的帖子，按创建时间倒序，
	// 并附带作者信息、有序媒体以及查询时聚合的点赞/评论数
	ListPostsByAuthors(authorIDs []int, limit, offset int) ([]*model.Post, error)
	CreateComment(comment *model.Comment) error
	FindCommentByID(id int) (*model.Comment, error)
	// ListComments 返回帖子的评论，按创建时间升序，附带回复数与点赞数
	ListComments(postID int) ([]*model.Comment, error)
	ListReplies(commentID int) ([]*model.Comment, error)
	// LikePost 幂等写入点赞记录，重复点赞不产生新行也不报错
	LikePost(userID, postID int) error
	LikeComment(userID, commentID int) error
	ListPostLikes(postID int) ([]*model.PostLike, error)
	ListCommentLikes(commentID int) ([]*model.CommentLike, error)
}
