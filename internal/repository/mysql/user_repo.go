package mysql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NasirNS45/momento-backend/internal/model"
	"github.com/NasirNS45/momento-backend/internal/util"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, name, date_of_birth, is_staff, is_active, is_public, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.Name,
		user.DateOfBirth, user.IsStaff, user.IsActive, user.IsPublic)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("email", user.Email))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return err
	}
	user.ID = int(id)
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

const userColumns = `id, username, email, password_hash, name, date_of_birth, is_staff, is_active, is_public, created_at, updated_at`

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name,
		&user.DateOfBirth, &user.IsStaff, &user.IsActive, &user.IsPublic,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID 通过ID查找用户，未找到时返回 nil
func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, id))
}

// FindByEmail 通过邮箱查找用户，未找到时返回 nil
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

// FindByUsername 通过用户名查找用户，未找到时返回 nil
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRow(query, username))
}

// Update 更新用户信息
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, email = ?, name = ?, is_active = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.Email, user.Name, user.IsActive, user.IsPublic, time.Now(), user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
	}
	return err
}

// ListSummaries 返回活跃、非管理的用户公开信息，按ID倒序
func (r *userRepository) ListSummaries(excludeIDs []int) ([]*model.UserSummary, error) {
	query := `
        SELECT u.id, u.username, u.name, p.profile_picture
        FROM users u
        LEFT JOIN profiles p ON p.user_id = u.id
        WHERE u.is_active = TRUE AND u.is_staff = FALSE`

	args := make([]interface{}, 0, len(excludeIDs))
	if len(excludeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(excludeIDs)), ",")
		query += fmt.Sprintf(" AND u.id NOT IN (%s)", placeholders)
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY u.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []*model.UserSummary
	for rows.Next() {
		var user model.UserSummary
		var picture sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &picture); err != nil {
			return nil, err
		}
		if picture.Valid && picture.String != "" {
			user.ProfilePicture = &picture.String
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// GetSummary 获取单个用户的公开信息
func (r *userRepository) GetSummary(id int) (*model.UserSummary, error) {
	query := `
        SELECT u.id, u.username, u.name, p.profile_picture
        FROM users u
        LEFT JOIN profiles p ON p.user_id = u.id
        WHERE u.id = ?`

	var user model.UserSummary
	var picture sql.NullString
	err := r.db.QueryRow(query, id).Scan(&user.ID, &user.Username, &user.Name, &picture)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if picture.Valid && picture.String != "" {
		user.ProfilePicture = &picture.String
	}
	return &user, nil
}

// GetProfile 获取用户资料，未找到时返回 nil
func (r *userRepository) GetProfile(userID int) (*model.Profile, error) {
	query := `SELECT id, user_id, bio, profile_picture, cover_picture, website, gender, created_at, updated_at
              FROM profiles WHERE user_id = ?`
	var profile model.Profile
	err := r.db.QueryRow(query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Bio, &profile.ProfilePicture,
		&profile.CoverPicture, &profile.Website, &profile.Gender,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile 创建或更新用户资料，user_id 唯一
func (r *userRepository) UpsertProfile(profile *model.Profile) error {
	query := `INSERT INTO profiles (user_id, bio, profile_picture, cover_picture, website, gender, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
              ON DUPLICATE KEY UPDATE
                  bio = VALUES(bio), profile_picture = VALUES(profile_picture),
                  cover_picture = VALUES(cover_picture), website = VALUES(website),
                  gender = VALUES(gender), updated_at = NOW()`
	_, err := r.db.Exec(query, profile.UserID, profile.Bio, profile.ProfilePicture,
		profile.CoverPicture, profile.Website, profile.Gender)
	if err != nil {
		util.Logger.Error("保存用户资料失败", zap.Error(err), zap.Int("user_id", profile.UserID))
	}
	return err
}

// CreateOTP 创建一条验证码记录
func (r *userRepository) CreateOTP(otp *model.OTP) error {
	query := `INSERT INTO otps (user_id, code, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, otp.UserID, otp.Code)
	if err != nil {
		util.Logger.Error("创建验证码失败", zap.Error(err), zap.Int("user_id", otp.UserID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	otp.ID = int(id)
	otp.CreatedAt = time.Now()
	return nil
}

// FindOTP 查找用户的验证码记录，未找到时返回 nil
func (r *userRepository) FindOTP(userID int, code string) (*model.OTP, error) {
	query := `SELECT id, user_id, code, created_at FROM otps WHERE user_id = ? AND code = ?`
	var otp model.OTP
	err := r.db.QueryRow(query, userID, code).Scan(&otp.ID, &otp.UserID, &otp.Code, &otp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

// DeleteOTP 删除验证码记录
func (r *userRepository) DeleteOTP(id int) error {
	_, err := r.db.Exec(`DELETE FROM otps WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除验证码失败", zap.Error(err), zap.Int("otp_id", id))
	}
	return err
}
