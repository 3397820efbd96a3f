package repository

import (
	"context"
	"fmt"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// stock を相対値で更新する。読んでから書くと同時注文で在庫がずれるため。
// floor が true のとき、減らした結果が負になる行は更新しない
func (r *InventoryGormRepository) shiftStock(ctx context.Context, productID, delta int64, floor bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID)
	if floor {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}

// 在庫が qty 以上あるときだけ減らす。足りなければ (false, nil)
func (r *InventoryGormRepository) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrease stock of product %d: quantity %d must be positive", productID, qty)
	}
	n, err := r.shiftStock(ctx, productID, -qty, true)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// キャンセル・削除時の在庫戻し
func (r *InventoryGormRepository) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("increase stock of product %d: quantity %d must be positive", productID, qty)
	}
	n, err := r.shiftStock(ctx, productID, qty, false)
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if adj.Delta == 0 || adj.Reason == "" {
		return fmt.Errorf("inventory adjustment for product %d: delta and reason are required", adj.ProductID)
	}
	return mapErr(r.db.WithContext(ctx).Create(&adj).Error)
}
