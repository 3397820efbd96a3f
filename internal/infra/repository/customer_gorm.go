package repository

import (
	"context"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) List(ctx context.Context) ([]model.Customer, error) {
	var cs []model.Customer
	if err := r.db.WithContext(ctx).Preload("User").Order("id asc").Find(&cs).Error; err != nil {
		return []model.Customer{}, err
	}
	return cs, nil
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return model.Customer{}, mapErr(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		return model.Customer{}, mapErr(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Omit("User").Create(&c).Error; err != nil {
		return model.Customer{}, mapErr(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"phone":       c.Phone,
		"address":     c.Address,
		"city":        c.City,
		"postal_code": c.PostalCode,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) HasOrders(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
