package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/repository"
)

type CreateStaffInput struct {
	Username string
	Email    string
	Password string
}

// 既存ユーザーなら昇格、いなければ作成
type CreateStaffUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

func NewCreateStaffUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *CreateStaffUsecase {
	return &CreateStaffUsecase{userRepo: userRepo, hasher: hasher}
}

// created は新規作成したかどうか
func (u *CreateStaffUsecase) Execute(ctx context.Context, in CreateStaffInput) (dto UserDTO, created bool, err error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return UserDTO{}, false, errors.New("username is required")
	}

	user, err := u.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		user.Role = model.RoleStaff
		user.IsActive = true
		if in.Password != "" {
			hash, err := u.hasher.Hash(in.Password)
			if err != nil {
				return UserDTO{}, false, err
			}
			user.PasswordHash = hash
		}
		if err := u.userRepo.Update(ctx, user); err != nil {
			return UserDTO{}, false, err
		}
		return ToUserDTO(user), false, nil

	case errors.Is(err, repository.ErrNotFound):
		if in.Email == "" || in.Password == "" {
			return UserDTO{}, false, errors.New("email and password are required for a new staff user")
		}
		hash, err := u.hasher.Hash(in.Password)
		if err != nil {
			return UserDTO{}, false, err
		}
		user = &model.User{
			Username:     username,
			Email:        strings.ToLower(strings.TrimSpace(in.Email)),
			PasswordHash: hash,
			Role:         model.RoleStaff,
			IsActive:     true,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return UserDTO{}, false, ErrAccountExists
			}
			return UserDTO{}, false, err
		}
		return ToUserDTO(user), true, nil

	default:
		return UserDTO{}, false, err
	}
}
