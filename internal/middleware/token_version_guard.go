package middleware

import (
	"github.com/shadinbyte/shopease/internal/repository"

	"github.com/labstack/echo/v4"
)

// AuthJWT の後ろに置く。強制ログアウト済み(tv不一致)・停止中のアカウントは401、
// role は DB の値で上書きする
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c)
			if claims == nil {
				return unauthorized(c)
			}

			user, err := userRepo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil || user == nil {
				return unauthorized(c)
			}
			if !user.IsActive || user.TokenVersion != claims.TokenVersion {
				return unauthorized(c)
			}

			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}
