package model

import "time"

// 顧客プロフィール。User と 1:1
type Customer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone      string    `gorm:"type:varchar(20);not null;default:''" json:"phone"`
	Address    string    `gorm:"type:text;not null;default:''" json:"address"`
	City       string    `gorm:"type:varchar(100);not null;default:''" json:"city"`
	PostalCode string    `gorm:"type:varchar(20);not null;default:''" json:"postal_code"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c Customer) FullName() string {
	return c.User.FullName()
}
