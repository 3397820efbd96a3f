package validator

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/shadinbyte/shopease/internal/repository"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// username/emailが既に使用済み
	ErrUsernameAlreadyUsed = errors.New("username already used")
	ErrEmailAlreadyUsed    = errors.New("email already used")

	// refresh tokenが空
	ErrInvalidRefresh = errors.New("invalid refresh")
)

// どの項目がなぜ不正か
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func fieldErr(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"letmein1":    {},
	"iloveyou":    {},
	"admin123":    {},
}

type AuthValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) *AuthValidator {
	return &AuthValidator{users: users}
}

// サインアップの入力を検証
func (v *AuthValidator) ValidateRegister(ctx context.Context, username, email, password, password2 string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := checkUsername(username); err != nil {
		return err
	}
	if !isEmailLike(email) {
		return fieldErr("email", "enter a valid email address")
	}
	if password != password2 {
		return fieldErr("password", "password fields didn't match")
	}
	if err := checkPassword(password, username); err != nil {
		return err
	}

	// 重複チェック（DBが必要）
	if u, err := v.users.FindByUsername(ctx, username); err == nil && u != nil {
		return ErrUsernameAlreadyUsed
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if u, err := v.users.FindByEmail(ctx, email); err == nil && u != nil {
		return ErrEmailAlreadyUsed
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return nil
}

// ログインの入力を検証
func (v *AuthValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	if strings.TrimSpace(username) == "" {
		return fieldErr("username", "this field is required")
	}
	if password == "" {
		return fieldErr("password", "this field is required")
	}
	return nil
}

// refresh 入力を検証
func (v *AuthValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidRefresh
	}
	return nil
}

func checkUsername(username string) error {
	if username == "" {
		return fieldErr("username", "this field is required")
	}
	if len(username) > 150 {
		return fieldErr("username", "ensure this field has no more than 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fieldErr("username", "letters, digits and @/./+/-/_ only")
	}
	return nil
}

func checkPassword(password, username string) error {
	if len(password) < 8 {
		return fieldErr("password", "this password is too short, it must contain at least 8 characters")
	}
	normalized := strings.ToLower(strings.TrimSpace(password))
	if _, ok := weakPasswords[normalized]; ok {
		return fieldErr("password", "this password is too common")
	}
	if isNumeric(password) {
		return fieldErr("password", "this password is entirely numeric")
	}
	if username != "" && strings.EqualFold(password, username) {
		return fieldErr("password", "the password is too similar to the username")
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// メールチェック
func isEmailLike(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
