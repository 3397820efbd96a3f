package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
}

// handlerがJSONにして返す
type LoginOutput struct {
	User    UserDTO `json:"user"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
}

type LoginValidator interface {
	ValidateLogin(ctx context.Context, username string, password string) error
}

type LoginUsecase struct {
	userRepo  repository.UserRepository
	validator LoginValidator
	verifier  PasswordVerifier
	sessions  sessionIssuer
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	validator LoginValidator,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:  userRepo,
		validator: validator,
		verifier:  verifier,
		sessions: sessionIssuer{
			rtRepo:     rtRepo,
			issuer:     issuer,
			idGen:      idGen,
			clock:      clock,
			refreshTTL: refreshTTL,
		},
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	if err := u.validator.ValidateLogin(ctx, in.Username, in.Password); err != nil {
		return out, err
	}

	//usernameでユーザー取得
	user, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return out, ErrUserInactive
	}

	tokens, err := u.sessions.issue(ctx, user, in.UserAgent)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻更新
	now := u.sessions.clock.Now()
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, err
	}

	out.User = ToUserDTO(user)
	out.Access = tokens.Access
	out.Refresh = tokens.Refresh
	return out, nil
}
