package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
)

// 顧客プロフィール。取得系は User を読み込んだ状態で返す
type CustomerRepository interface {
	List(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	//phone/address/city/postal_code のみ
	Update(ctx context.Context, c model.Customer) error
	Delete(ctx context.Context, id int64) error
	HasOrders(ctx context.Context, id int64) (bool, error)
}
