package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	CategoryID *int64
	InStock    bool
	Search     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//公開（is_active=true）の商品のみ
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	//0 < stock < LowStockThreshold
	ListLowStock(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//行ロック付きでまとめて取得（id昇順）
	FindByIDsForUpdate(ctx context.Context, ids []int64) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Deactivate(ctx context.Context, id int64) error
}
