package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

// 保存・取得を約束。見つからない場合は ErrNotFound
type UserRepository interface {
	//新規ユーザー作成（username/email重複は ErrConflict）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
