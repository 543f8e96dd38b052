package model

import "time"

// User 结构体表示用户模型
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // 密码哈希不应在JSON中暴露
	Name         string     `json:"name"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	IsPublic     bool       `json:"is_public"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserSummary 是对外展示的用户公开信息
type UserSummary struct {
	ID             int     `json:"id"`
	Username       string  `json:"username"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

// Summary 返回用户的公开信息（不带头像，头像由资料表补充）
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

// Profile 用户资料模型
type Profile struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	CoverPicture   string    `json:"cover_picture"`
	Website        string    `json:"website"`
	Gender         string    `json:"gender"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OTPTTL 验证码有效期
const OTPTTL = 5 * time.Minute

// OTP 一次性验证码，用于激活账户
type OTP struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired 判断验证码是否已过期
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.CreatedAt.Add(OTPTTL))
}

// FollowStatus 关注关系状态
type FollowStatus string

const (
	FollowPending  FollowStatus = "pending"
	FollowAccepted FollowStatus = "accepted"
)

// Follow 有向关注关系，(follower, followed) 对唯一
type Follow struct {
	ID         int          `json:"id"`
	FollowedID int          `json:"followed_id"` // 被关注的人
	FollowerID int          `json:"follower_id"` // 发起关注的人
	Status     FollowStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
