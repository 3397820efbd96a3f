package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidAccessToken = errors.New("invalid access token")

// access token の中身。発行(JWTIssuer)と検証(ParseAccessToken)で共用
type AccessClaims struct {
	UserID       int64            `json:"sub"`
	Role         model.Role       `json:"role"`
	TokenVersion int              `json:"tv"`
	IssuedAt     *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt    *jwt.NumericDate `json:"exp"`
}

// jwt.Claims。期限と必須項目を見る
func (c *AccessClaims) Valid() error {
	if c.ExpiresAt == nil || !time.Now().Before(c.ExpiresAt.Time) {
		return jwt.ErrTokenExpired
	}
	if c.UserID <= 0 {
		return fmt.Errorf("%w: sub", ErrInvalidAccessToken)
	}
	if c.Role == "" {
		return fmt.Errorf("%w: role", ErrInvalidAccessToken)
	}
	if c.TokenVersion < 0 {
		return fmt.Errorf("%w: tv", ErrInvalidAccessToken)
	}
	return nil
}

// HS256 以外は受け付けない
func ParseAccessToken(raw string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	return claims, nil
}
