package service

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/NasirNS45/momento-backend/internal/errors"
	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/repository/interfaces"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
	mailer   Mailer
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, mailer Mailer) *UserService {
	return &UserService{
		userRepo: userRepo,
		mailer:   mailer,
	}
}

// RegisterInput 注册请求数据
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Username    string
	DateOfBirth *time.Time
}

// Register 注册新用户：创建未激活账户并发送验证码邮件
func (s *UserService) Register(input RegisterInput) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "邮箱已被注册")
	}

	existing, err = s.userRepo.FindByUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "用户名已被使用")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 新用户在验证邮箱前保持未激活
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Name:         input.Name,
		DateOfBirth:  input.DateOfBirth,
		IsActive:     false,
		IsPublic:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	otp := &model.OTP{
		UserID: user.ID,
		Code:   util.GenerateOTPCode(),
	}
	if err := s.userRepo.CreateOTP(otp); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(user.Email, otp.Code); err != nil {
		util.Logger.Error("发送验证码邮件失败", zap.Error(err), zap.Int("user_id", user.ID))
	}

	util.Logger.Info("用户注册成功，等待验证", zap.Int("user_id", user.ID))
	return user, nil
}

// VerifyOTP 校验验证码并激活账户，验证码在创建 5 分钟后过期
func (s *UserService) VerifyOTP(email, code string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "未找到该邮箱对应的账户")
	}
	if user.IsActive {
		return errors.New(errors.ErrValidation, "账户已经完成验证")
	}

	otp, err := s.userRepo.FindOTP(user.ID, code)
	if err != nil {
		return err
	}
	if otp == nil {
		return errors.New(errors.ErrValidation, "无效的验证码")
	}
	if otp.IsExpired() {
		return errors.New(errors.ErrValidation, "验证码已过期")
	}

	user.IsActive = true
	if err := s.userRepo.Update(user); err != nil {
		util.Logger.Error("激活账户失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}
	if err := s.userRepo.DeleteOTP(otp.ID); err != nil {
		return err
	}

	util.Logger.Info("账户激活成功", zap.Int("user_id", user.ID))
	return nil
}

// Login 校验凭证，未激活账户视为凭证无效
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if !user.IsActive {
		return nil, errors.New(errors.ErrInvalidCredentials, "账户尚未激活")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// GetSummary 获取用户的公开信息
func (s *UserService) GetSummary(id int) (*model.UserSummary, error) {
	summary, err := s.userRepo.GetSummary(id)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return summary, nil
}

// ListUsers 返回除本人外的全部活跃、非管理用户，按ID倒序
func (s *UserService) ListUsers(viewerID int) ([]*model.UserSummary, error) {
	users, err := s.userRepo.ListSummaries([]int{viewerID})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.UserSummary{}
	}
	return users, nil
}

// ProfileInput 用户资料更新数据，只更新非 nil 字段
type ProfileInput struct {
	Bio            *string
	ProfilePicture *string
	CoverPicture   *string
	Website        *string
	Gender         *string
}

// UpdateProfile 创建或更新用户资料
func (s *UserService) UpdateProfile(userID int, input ProfileInput) (*model.Profile, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.Profile{UserID: userID}
	}

	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.ProfilePicture != nil {
		profile.ProfilePicture = *input.ProfilePicture
	}
	if input.CoverPicture != nil {
		profile.CoverPicture = *input.CoverPicture
	}
	if input.Website != nil {
		profile.Website = *input.Website
	}
	if input.Gender != nil {
		profile.Gender = *input.Gender
	}

	if err := s.userRepo.UpsertProfile(profile); err != nil {
		return nil, err
	}

	util.Logger.Info("用户资料更新成功", zap.Int("user_id", userID))
	return profile, nil
}

// UserServiceInterface 供处理器层依赖与测试替身使用
type UserServiceInterface interface {
	Register(input RegisterInput) (*model.User, error)
	VerifyOTP(email, code string) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetSummary(id int) (*model.UserSummary, error)
	ListUsers(viewerID int) ([]*model.UserSummary, error)
	UpdateProfile(userID int, input ProfileInput) (*model.Profile, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
