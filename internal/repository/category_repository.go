package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	//カテゴリごとの商品数（有効・無効を問わない）
	CountProducts(ctx context.Context, categoryIDs []int64) (map[int64]int64, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id int64) error
}
