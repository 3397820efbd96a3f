package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/repository"
)

// 入力検証（形式・重複）の約束
type RegisterValidator interface {
	ValidateRegister(ctx context.Context, username, email, password, password2 string) error
}

// 会員登録の入力
type RegisterUserInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
	UserAgent string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User    UserDTO `json:"user"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	Message string  `json:"message"`
}

// RegisterUserUsecaseは会員登録の処理。アカウントと顧客プロフィールを同じtxで作る
type RegisterUserUsecase struct {
	tx        repository.TransactionManager
	validator RegisterValidator
	hasher    PasswordHasher
	sessions  sessionIssuer
}

// DI
func NewRegisterUserUsecase(
	tx repository.TransactionManager,
	validator RegisterValidator,
	hasher PasswordHasher,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		tx:        tx,
		validator: validator,
		hasher:    hasher,
		sessions: sessionIssuer{
			rtRepo:     rtRepo,
			issuer:     issuer,
			idGen:      idGen,
			clock:      clock,
			refreshTTL: refreshTTL,
		},
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := u.validator.ValidateRegister(ctx, in.Username, in.Email, in.Password, in.Password2); err != nil {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAccountExists
			}
			return err
		}
		if _, err := r.Customers().Create(ctx, model.Customer{UserID: user.ID}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return out, err
	}

	tokens, err := u.sessions.issue(ctx, user, in.UserAgent)
	if err != nil {
		return out, err
	}

	out.User = ToUserDTO(user)
	out.Access = tokens.Access
	out.Refresh = tokens.Refresh
	out.Message = "user registered successfully"
	return out, nil
}
