package model

import "time"

// 在庫変動の履歴（注文・キャンセル・スタッフの在庫修正）
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	ActorUserID int64     `gorm:"not null;index" json:"actor_user_id"`
	OrderID     *int64    `gorm:"index" json:"order_id,omitempty"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

const (
	ReasonOrderPlaced    = "order placed"
	ReasonOrderCancelled = "order cancelled"
	ReasonOrderDeleted   = "order deleted"
	ReasonStaffEdit      = "staff stock edit"
)
