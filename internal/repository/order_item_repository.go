package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	//Product を読み込んだ状態で返す
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	CountByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]int64, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
