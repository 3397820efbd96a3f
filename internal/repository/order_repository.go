package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderListFilter struct {
	//nil なら全件（スタッフ）
	CustomerID *int64
	Status     model.OrderStatus
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//行ロック付き
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateShipping(ctx context.Context, orderID int64, shippingAddress string, notes string) error
	//明細の小計合計で total_amount を再計算して保存
	RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error)
	Delete(ctx context.Context, orderID int64) error
}
