package auth

import (
	"errors"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/google/uuid"
)

var (
	// ユーザー名またはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	// 停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")
	// 競合
	ErrAccountExists = errors.New("username or email already exists")
	// 期限切れ・失効・存在しない
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// 使用済みトークンが再度使われた（全トークン失効済み）
	ErrRefreshTokenReused = errors.New("refresh token reuse detected")
	// ログアウト失敗（400）
	ErrLogoutFailed = errors.New("logout failed")
	ErrUserNotFound = errors.New("user not found")
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// handlerがJSONにして返す（passwordは含めない）
type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsStaff   bool   `json:"is_staff"`
}

func ToUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		IsStaff:   u.IsStaff(),
	}
}

// access/refresh の組
type TokenPair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int    `json:"expires_in"`
}
