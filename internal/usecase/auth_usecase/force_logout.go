package auth

import (
	"context"
	"errors"

	"github.com/shadinbyte/shopease/internal/repository"
)

type ForceLogoutOutput struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

// token_version を上げて発行済みの access token を無効化し、refresh も全失効
type ForceLogoutUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
}

func NewForceLogoutUsecase(userRepo repository.UserRepository, rtRepo repository.RefreshTokenRepository, clock Clock) *ForceLogoutUsecase {
	return &ForceLogoutUsecase{userRepo: userRepo, rtRepo: rtRepo, clock: clock}
}

func (u *ForceLogoutUsecase) Execute(ctx context.Context, targetUserID int64) (ForceLogoutOutput, error) {
	if err := u.userRepo.IncrementTokenVersion(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ForceLogoutOutput{}, ErrUserNotFound
		}
		return ForceLogoutOutput{}, err
	}

	if err := u.rtRepo.RevokeAllByUserID(ctx, targetUserID, u.clock.Now()); err != nil {
		return ForceLogoutOutput{}, err
	}

	//更新後を取得してnew_token_versionを返す
	user, err := u.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return ForceLogoutOutput{}, err
	}

	return ForceLogoutOutput{
		UserID:          user.ID,
		NewTokenVersion: user.TokenVersion,
	}, nil
}
