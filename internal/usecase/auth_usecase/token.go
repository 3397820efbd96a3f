package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	"github.com/shadinbyte/shopease/internal/repository"

	"github.com/golang-jwt/jwt/v4"
)

// HS256 で access token を発行する
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.ttl)

	claims := &AccessClaims{
		UserID:       userID,
		Role:         role,
		TokenVersion: tokenVersion,
		IssuedAt:     jwt.NewNumericDate(now),
		ExpiresAt:    jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// login/register/refresh 共通のトークン発行
type sessionIssuer struct {
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

func (s sessionIssuer) issue(ctx context.Context, user *model.User, userAgent string) (TokenPair, error) {
	//AccessToken発行
	now := s.clock.Now()
	access, accessExp, err := s.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return TokenPair{}, err
	}

	//RefreshToken生成（DBにはhashのみ）
	plain, err := generateSecureToken(32)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := &model.RefreshToken{
		ID:        s.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(plain),
		UserAgent: userAgent,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.rtRepo.Create(ctx, refresh); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		Access:    access,
		Refresh:   plain,
		ExpiresIn: int(accessExp.Sub(now).Seconds()),
	}, nil
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
