package interfaces

import "github.com/NasirNS45/momento-backend/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	// ListSummaries 返回活跃、非管理的用户公开信息，按ID倒序；
	// excludeIDs 中的用户不会出现在结果里
	ListSummaries(excludeIDs []int) ([]*model.UserSummary, error)
	GetSummary(id int) (*model.UserSummary, error)
	GetProfile(userID int) (*model.Profile, error)
	UpsertProfile(profile *model.Profile) error
	CreateOTP(otp *model.OTP) error
	FindOTP(userID int, code string) (*model.OTP, error)
	DeleteOTP(id int) error
}
