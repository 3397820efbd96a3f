package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

// アカウント（認証の主体）。顧客プロフィールは Customer 側に1:1で持つ
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName    string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u User) IsStaff() bool {
	return u.Role == RoleStaff
}

// 姓名をつなげた表示名
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
