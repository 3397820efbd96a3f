package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 在庫が少ないとみなす上限（この値未満）
const LowStockThreshold = 10

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  int64           `gorm:"not null;index" json:"category_id"`
	IsActive    bool            `gorm:"not null;default:true;index" json:"is_active"`
	Image       string          `gorm:"type:varchar(255);not null;default:''" json:"image"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (p Product) IsInStock() bool {
	return p.Stock > 0
}

// 有効かつ qty 分の在庫があるか
func (p Product) CanFulfil(qty int64) bool {
	return p.IsActive && qty > 0 && qty <= p.Stock
}
