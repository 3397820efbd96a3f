package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 売上に数えるステータス
var RevenueStatuses = []OrderStatus{OrderStatusDelivered, OrderStatusShipped}

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 発送済み以降はキャンセル不可
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// 在庫を確保したままの状態か（キャンセル・削除で戻す対象）
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// 前進のみ許可。cancelled は Cancellable で判定する
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return s.Cancellable()
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID      int64           `gorm:"not null;index" json:"customer_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	OrderNotes      string          `gorm:"type:text;not null;default:''" json:"order_notes"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Customer Customer    `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

// 明細の小計を合計する
func SumSubtotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
