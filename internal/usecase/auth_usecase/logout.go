package auth

import (
	"context"
	"strings"

	"github.com/shadinbyte/shopease/internal/repository"
)

// 提示されたリフレッシュトークンを失効させる
type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo, clock: clock}
}

// 失敗はすべて ErrLogoutFailed（400）
func (u *LogoutUsecase) Execute(ctx context.Context, userID int64, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrLogoutFailed
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return ErrLogoutFailed
	}

	//他人のトークンは触らない
	if rt.UserID != userID {
		return ErrLogoutFailed
	}

	if err := u.rtRepo.Revoke(ctx, rt.ID, u.clock.Now()); err != nil {
		return ErrLogoutFailed
	}
	return nil
}
