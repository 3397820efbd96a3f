package repository

import (
	"context"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

// リフレッシュトークンの保存・取得・更新
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	//未使用・未失効のときだけ used_at を立てる
	MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error
	Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error
	RevokeAllByUserID(ctx context.Context, userID int64, revokedAt time.Time) error
}
