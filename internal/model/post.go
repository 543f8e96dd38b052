package model

import "time"

// PostType 帖子类型
type PostType string

const (
	PostTypePost PostType = "post"
	PostTypeReel PostType = "reel"
)

// MediaType 媒体类型，由文件扩展名推断
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Post 帖子模型
type Post struct {
	ID                  int          `json:"id"`
	UserID              int          `json:"user_id"`
	Type                PostType     `json:"type"`
	Caption             string       `json:"caption"`
	AllowComments       bool         `json:"allow_comments"`
	HideLikesViewsCount bool         `json:"hide_likes_views_count"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	User                *UserSummary `json:"user,omitempty"`
	CreatedAgo          string       `json:"created_ago,omitempty"`
	Media               []*Media     `json:"media"`
	Hashtags            []string     `json:"hashtags,omitempty"`
	LikeCount           int          `json:"likes"`
	CommentCount        int          `json:"comments"`
}

// Media 帖子的媒体附件，position 决定轮播顺序
type Media struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Type      MediaType `json:"type"`
	FileURL   string    `json:"file"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Hashtag 话题标签，名称唯一
type Hashtag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Comment 评论模型，parent_id 非空时为回复
type Comment struct {
	ID         int          `json:"id"`
	UserID     int          `json:"user_id"`
	PostID     int          `json:"post_id"`
	ParentID   *int         `json:"parent_id,omitempty"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedAgo string       `json:"created_ago,omitempty"`
	ReplyCount int          `json:"replies"`
	LikeCount  int          `json:"likes"`
}

// PostLike 帖子点赞记录，(user, post) 对唯一
type PostLike struct {
	ID         int          `json:"id"`
	UserID     int          `json:"user_id"`
	PostID     int          `json:"post_id"`
	CreatedAt  time.Time    `json:"created_at"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedAgo string       `json:"created_ago,omitempty"`
}

// CommentLike 评论点赞记录，(user, comment) 对唯一
type CommentLike struct {
	ID         int          `json:"id"`
	UserID     int          `json:"user_id"`
	CommentID  int          `json:"comment_id"`
	CreatedAt  time.Time    `json:"created_at"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedAgo string       `json:"created_ago,omitempty"`
}

// FeedPage 信息流分页结果，Total 始终为未分页的总数
type FeedPage struct {
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Total    int     `json:"total"`
	Items    []*Post `json:"items"`
}
