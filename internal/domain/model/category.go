package model

import "time"

// 商品カテゴリ。name の一意性は強制しない
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
}
