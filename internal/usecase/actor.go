package usecase

import "github.com/shadinbyte/shopease/internal/domain/model"

// 操作しているユーザー（JWT から取り出したもの）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsStaff() bool {
	return a.Role == model.RoleStaff
}

func (a Actor) Authenticated() bool {
	return a.UserID > 0
}
