package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。Price は注文時点の商品価格のスナップショット
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

// 商品の現在価格で明細を作る
func NewOrderItem(p Product, qty int64) OrderItem {
	return OrderItem{
		ProductID: p.ID,
		Quantity:  qty,
		Price:     p.Price,
		Subtotal:  p.Price.Mul(decimal.NewFromInt(qty)),
	}
}
