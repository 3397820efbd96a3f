package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Customer.User").Where("id = ?", orderID).First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapErr(err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Preload("Customer.User")

	//顧客で絞り込み
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var items []model.Order
	if err := q.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateShipping(ctx context.Context, orderID int64, shippingAddress string, notes string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"shipping_address": shippingAddress,
			"order_notes":      notes,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細の小計合計を total_amount に保存する
func (r *OrderGormRepository) RecalculateTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("order_id = ?", orderID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := row.Total

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total)
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, repo.ErrNotFound
	}
	return total, nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
