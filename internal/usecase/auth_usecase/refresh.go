package auth

import (
	"context"
	"errors"
	"time"

	"github.com/shadinbyte/shopease/internal/repository"
)

type RefreshValidator interface {
	ValidateRefresh(ctx context.Context, refreshToken string) error
}

type RefreshInput struct {
	RefreshToken string
	UserAgent    string
}

// 使ったトークンは使用済みにして、新しい組を返す（ローテーション）
type RefreshUsecase struct {
	userRepo  repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	validator RefreshValidator
	sessions  sessionIssuer
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	validator RefreshValidator,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:  userRepo,
		rtRepo:    rtRepo,
		validator: validator,
		sessions: sessionIssuer{
			rtRepo:     rtRepo,
			issuer:     issuer,
			idGen:      idGen,
			clock:      clock,
			refreshTTL: refreshTTL,
		},
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (TokenPair, error) {
	if err := u.validator.ValidateRefresh(ctx, in.RefreshToken); err != nil {
		return TokenPair{}, err
	}

	//DB照合
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(in.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}

	now := u.sessions.clock.Now()

	//used済みが来たら replay → 全失効
	if rt.UsedAt != nil {
		_ = u.rtRepo.RevokeAllByUserID(ctx, rt.UserID, now)
		return TokenPair{}, ErrRefreshTokenReused
	}

	//期限切れ・revoked
	if !rt.Usable(now) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	//user取得
	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	//旧tokenをusedにする（同時に使われた場合はどちらかが負ける）
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = u.rtRepo.RevokeAllByUserID(ctx, rt.UserID, now)
			return TokenPair{}, ErrRefreshTokenReused
		}
		return TokenPair{}, err
	}

	return u.sessions.issue(ctx, user, in.UserAgent)
}
