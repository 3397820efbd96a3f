package middleware

import (
	"strings"

	"github.com/shadinbyte/shopease/internal/config"
	auth "github.com/shadinbyte/shopease/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string

	ctxClaimsKey = "access_claims" // *auth.AccessClaims
)

// Bearer の access token を検証し、claims を context に載せる
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			claims, err := auth.ParseAccessToken(raw, secret)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(ctxClaimsKey, claims)
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserRoleKey, string(claims.Role))
			return next(c)
		}
	}
}

// AuthJWT を通っていなければ nil
func ClaimsFromContext(c echo.Context) *auth.AccessClaims {
	claims, _ := c.Get(ctxClaimsKey).(*auth.AccessClaims)
	return claims
}

// "Bearer <token>"（scheme は大文字小文字を区別しない）
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
